package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duongtuttbn/tokenkit/etherscan"
	"github.com/duongtuttbn/tokenkit/lerror"
	"github.com/duongtuttbn/tokenkit/token"
)

func TestEtherscanVerifier(t *testing.T) {
	var form map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		if r.FormValue("action") == "verifysourcecode" {
			form = map[string]string{}
			for k := range r.PostForm {
				form[k] = r.PostForm.Get(k)
			}
			json.NewEncoder(w).Encode(etherscan.Response{Status: "1", Message: "OK", Result: "guid-9"})
			return
		}
		json.NewEncoder(w).Encode(etherscan.Response{Status: "1", Message: "OK", Result: "Pass - Verified"})
	}))
	defer server.Close()

	artifact, err := token.LoadArtifact("../token/testdata/TetherToken.json")
	require.NoError(t, err)
	client, err := etherscan.NewClient(etherscan.Config{APIURL: server.URL, APIKey: "key", PollInterval: time.Millisecond})
	require.NoError(t, err)
	verifier := NewEtherscanVerifier(client, artifact, "../token/testdata/build-info", 1)

	args := constructorArgs(testParams().Addresses)
	guid, err := verifier.Verify(context.Background(), tokenAddr, args...)
	require.NoError(t, err)
	assert.Equal(t, "guid-9", guid)

	assert.Equal(t, tokenAddr.Hex(), form["contractaddress"])
	assert.Equal(t, "contracts/TetherToken.sol:TetherToken", form["contractname"])
	assert.Equal(t, "v0.8.20+commit.a1b79de6", form["compilerversion"])
	assert.Len(t, form["constructorArguements"], 4*64)
	assert.True(t, strings.HasSuffix(form["constructorArguements"], strings.ToLower(testParams().Addresses.UniswapRouter.Hex()[2:])))
}

func TestEtherscanVerifierMissingBuildInfo(t *testing.T) {
	artifact, err := token.LoadArtifact("../token/testdata/TetherToken.json")
	require.NoError(t, err)
	client, err := etherscan.NewClient(etherscan.Config{APIURL: "http://127.0.0.1:1", APIKey: "key"})
	require.NoError(t, err)

	_, err = NewEtherscanVerifier(client, artifact, t.TempDir(), 1).Verify(context.Background(), common.Address{})
	assert.True(t, lerror.Is(err, lerror.MissingConfig))
}
