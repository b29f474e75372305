package api

import (
	"errors"
	"fmt"
	"testing"

	"ip-frontend/internal/backend"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		err     error
		msg     string
		outcome string
	}{
		{errConfigMissing, "API server configuration is missing.", OutcomeConfigMissing},
		{errNoIP, "No IP address provided.", OutcomeNoIP},
		{errInvalidIP, "Invalid IP address format.", OutcomeInvalidIP},
		{&backend.StatusError{Code: 404}, "Error fetching data from API. Status code: 404", OutcomeUpstreamError},
		{fmt.Errorf("wrapped: %w", &backend.StatusError{Code: 500}), "Error fetching data from API. Status code: 500", OutcomeUpstreamError},
		{errors.New("boom"), "Error connecting to API: boom", OutcomeTransportError},
	}
	for _, tc := range cases {
		msg, outcome := Describe(tc.err)
		if msg != tc.msg || outcome != tc.outcome {
			t.Errorf("Describe(%v) = (%q, %q), want (%q, %q)", tc.err, msg, outcome, tc.msg, tc.outcome)
		}
	}
}
