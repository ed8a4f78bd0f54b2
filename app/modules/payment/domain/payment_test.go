package paymentdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateProof(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		size     int64
		want     string
	}{
		{name: "pdf receipt", fileName: "transfer.PDF", size: 1024},
		{name: "jpeg receipt", fileName: "receipt.jpeg", size: MaxProofSize},
		{name: "empty", fileName: "receipt.png", size: 0, want: "proof is empty"},
		{name: "too large", fileName: "receipt.png", size: MaxProofSize + 1, want: "proof exceeds 5 MiB"},
		{name: "wrong type", fileName: "receipt.docx", size: 10, want: "proof must be one of .jpg, .jpeg, .png, .pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateProof(tt.fileName, tt.size))
		})
	}
}

func TestDecision(t *testing.T) {
	assert.True(t, DecisionVerify.IsValid())
	assert.False(t, Decision("approve").IsValid())
	assert.Equal(t, StatusVerified, DecisionVerify.Outcome())
	assert.Equal(t, StatusRejected, DecisionReject.Outcome())
}

func TestCanReplace(t *testing.T) {
	assert.True(t, CanReplace(StatusPending))
	assert.True(t, CanReplace(StatusRejected))
	assert.False(t, CanReplace(StatusVerified))
}
