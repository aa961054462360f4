package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
)

func TestDevicePrompter_PlainOutput(t *testing.T) {
	// Given a non-terminal writer
	buf := new(bytes.Buffer)
	p := NewDevicePrompter(buf)
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	// When
	err := p.Prompt(context.Background(), domain.DeviceCode{
		VerificationURI: "https://microsoft.com/devicelogin",
		UserCode:        "ABCD-EFGH",
		Expiry:          now.Add(15 * time.Minute),
	})

	// Then
	require.NoError(t, err)
	assert.Equal(t,
		"To sign in, open https://microsoft.com/devicelogin\nand enter the code ABCD-EFGH\nThe code expires in 15m0s.\n",
		buf.String())
}

func TestDevicePrompter_FallsBackToCompleteURI(t *testing.T) {
	buf := new(bytes.Buffer)
	p := NewDevicePrompter(buf)

	err := p.Prompt(context.Background(), domain.DeviceCode{
		VerificationURIComplete: "https://microsoft.com/devicelogin?code=X",
		UserCode:                "X",
	})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "https://microsoft.com/devicelogin?code=X")
	assert.NotContains(t, buf.String(), "expires")
}
