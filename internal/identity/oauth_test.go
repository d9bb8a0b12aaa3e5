package identity

import (
	"errors"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmehta/expenso/internal/common"
)

func invokeCallback(t *testing.T, state string, params url.Values) (code string, err error) {
	t.Helper()

	codeChan := make(chan string, 1)
	errorChan := make(chan error, 1)
	handler := callbackHandler(state, codeChan, errorChan)

	req := httptest.NewRequest("GET", "/callback?"+params.Encode(), nil)
	handler(httptest.NewRecorder(), req)

	select {
	case code = <-codeChan:
		return code, nil
	case err = <-errorChan:
		return "", err
	default:
		t.Fatal("callback produced neither code nor error")
		return "", nil
	}
}

func TestCallbackDeliversCode(t *testing.T) {
	code, err := invokeCallback(t, "state-1", url.Values{
		"state": {"state-1"},
		"code":  {"auth-code"},
	})
	require.NoError(t, err)
	assert.Equal(t, "auth-code", code)
}

func TestCallbackErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		params     url.Values
		wantReason common.CredentialReason
	}{
		{
			name:       "access denied",
			params:     url.Values{"error": {"access_denied"}},
			wantReason: common.CredentialAccessDenied,
		},
		{
			name:       "invalid client",
			params:     url.Values{"error": {"invalid_client"}},
			wantReason: common.CredentialInvalidClient,
		},
		{
			name:       "invalid request",
			params:     url.Values{"error": {"invalid_request"}},
			wantReason: common.CredentialInvalidRequest,
		},
		{
			name:       "unknown provider error",
			params:     url.Values{"error": {"server_error"}},
			wantReason: common.CredentialOther,
		},
		{
			name:       "state mismatch",
			params:     url.Values{"state": {"wrong"}, "code": {"auth-code"}},
			wantReason: common.CredentialInvalidRequest,
		},
		{
			name:       "missing code",
			params:     url.Values{"state": {"state-1"}},
			wantReason: common.CredentialInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := invokeCallback(t, "state-1", tt.params)
			require.Error(t, err)

			var credErr *common.CredentialError
			require.True(t, errors.As(err, &credErr))
			assert.Equal(t, tt.wantReason, credErr.Reason)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	assert.ErrorIs(t, cfg.Validate(), common.ErrMissingConfig)

	cfg = Config{ClientID: "id", ClientSecret: "secret"}
	assert.NoError(t, cfg.Validate())
}
