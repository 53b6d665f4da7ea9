package client_pool

type Config struct {
	// comma separated
	RpcUrls         string
	ProxyURL        string
	ManualBlockTime bool
}
