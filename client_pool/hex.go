package client_pool

import (
	"strconv"
	"strings"
)

func DecimalToHex(number int64) string {
	return "0x" + strconv.FormatInt(number, 16)
}

func hexaNumberToString(hexaString string) string {
	numberStr := strings.TrimPrefix(hexaString, "0x")
	numberStr = strings.TrimPrefix(numberStr, "0X")
	return numberStr
}

func HexToInt(hex string) (int64, error) {
	return strconv.ParseInt(hexaNumberToString(hex), 16, 64)
}
