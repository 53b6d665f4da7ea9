package etherscan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duongtuttbn/tokenkit/lerror"
)

type fakeExplorer struct {
	submit   Response
	statuses []string
	polls    int32
	form     map[string]string
}

func (f *fakeExplorer) server(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "11155111", r.URL.Query().Get("chainid"))
		assert.Equal(t, "key", r.FormValue("apikey"))
		w.Header().Set("Content-Type", "application/json")

		switch r.FormValue("action") {
		case "verifysourcecode":
			assert.Equal(t, http.MethodPost, r.Method)
			f.form = map[string]string{}
			for k := range r.PostForm {
				f.form[k] = r.PostForm.Get(k)
			}
			json.NewEncoder(w).Encode(f.submit)
		case "checkverifystatus":
			assert.Equal(t, "guid-1", r.FormValue("guid"))
			n := int(atomic.AddInt32(&f.polls, 1)) - 1
			if n >= len(f.statuses) {
				n = len(f.statuses) - 1
			}
			status := "0"
			if f.statuses[n] == resultPass {
				status = "1"
			}
			json.NewEncoder(w).Encode(Response{Status: status, Message: "OK", Result: f.statuses[n]})
		default:
			t.Errorf("unexpected action %q", r.FormValue("action"))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Config{APIURL: url, APIKey: "key", PollInterval: time.Millisecond})
	require.NoError(t, err)
	return c
}

func testRequest() VerifyRequest {
	return VerifyRequest{
		ChainID:              11155111,
		ContractAddress:      "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		ContractName:         "contracts/TetherToken.sol:TetherToken",
		CompilerVersion:      "v0.8.20+commit.a1b79de6",
		SourceCode:           json.RawMessage(`{"language":"Solidity"}`),
		ConstructorArguments: "000000000000000000000000ee9f2375b4bdf6387aa8265dd4fb8f16512a1d46",
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{APIURL: "http://localhost"})
	assert.True(t, lerror.Is(err, lerror.MissingConfig))
}

func TestVerify(t *testing.T) {
	explorer := &fakeExplorer{
		submit:   Response{Status: "1", Message: "OK", Result: "guid-1"},
		statuses: []string{resultPending, resultPending, resultPass},
	}
	c := newTestClient(t, explorer.server(t).URL)

	guid, err := c.Verify(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "guid-1", guid)
	assert.Equal(t, int32(3), atomic.LoadInt32(&explorer.polls))

	assert.Equal(t, "contract", explorer.form["module"])
	assert.Equal(t, "solidity-standard-json-input", explorer.form["codeformat"])
	assert.Equal(t, "contracts/TetherToken.sol:TetherToken", explorer.form["contractname"])
	assert.Equal(t, testRequest().ConstructorArguments, explorer.form["constructorArguements"])
	assert.Equal(t, testRequest().ContractAddress, explorer.form["contractaddress"])
}

func TestVerifyFails(t *testing.T) {
	explorer := &fakeExplorer{
		submit:   Response{Status: "1", Message: "OK", Result: "guid-1"},
		statuses: []string{"Fail - Unable to verify"},
	}
	c := newTestClient(t, explorer.server(t).URL)

	_, err := c.Verify(context.Background(), testRequest())
	assert.True(t, lerror.Is(err, lerror.VerificationFailed))
}

func TestVerifyAlreadyVerified(t *testing.T) {
	explorer := &fakeExplorer{
		submit: Response{Status: "0", Message: "NOTOK", Result: "Contract source code already verified"},
	}
	c := newTestClient(t, explorer.server(t).URL)

	guid, err := c.Verify(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Empty(t, guid)
	assert.Zero(t, atomic.LoadInt32(&explorer.polls))
}

func TestVerifySubmitRejected(t *testing.T) {
	explorer := &fakeExplorer{
		submit: Response{Status: "0", Message: "NOTOK", Result: "Invalid API Key"},
	}
	c := newTestClient(t, explorer.server(t).URL)

	_, err := c.VerifySourceCode(context.Background(), testRequest())
	assert.True(t, lerror.Is(err, lerror.VerificationFailed))
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestVerifyContextCancelled(t *testing.T) {
	explorer := &fakeExplorer{
		submit:   Response{Status: "1", Message: "OK", Result: "guid-1"},
		statuses: []string{resultPending},
	}
	c := newTestClient(t, explorer.server(t).URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	guid, err := c.Verify(ctx, testRequest())
	assert.Error(t, err)
	assert.Equal(t, "guid-1", guid)
}

func TestNonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("maintenance"))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).CheckVerifyStatus(context.Background(), 1, "guid-1")
	assert.True(t, lerror.Is(err, lerror.InvalidResponse))
}
