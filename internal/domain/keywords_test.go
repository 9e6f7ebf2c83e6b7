package domain_test

import (
	"testing"

	"github.com/bkyoung/mtscreen/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestContainsAny(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     bool
	}{
		{
			name:     "match in middle of text",
			text:     "replace the failed bearing assembly",
			keywords: domain.ReplacementKeywords,
			want:     true,
		},
		{
			name:     "substring containment matches inside words",
			text:     "temporarily rerouted cabling",
			keywords: domain.TemporaryKeywords,
			want:     true,
		},
		{
			name:     "no match",
			text:     "repaint the handrail",
			keywords: domain.NewInstallationKeywords,
			want:     false,
		},
		{
			name:     "empty text",
			text:     "",
			keywords: domain.SafetySignificantKeywords,
			want:     false,
		},
		{
			name:     "empty keyword set",
			text:     "anything",
			keywords: nil,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ContainsAny(tt.text, tt.keywords))
		})
	}
}

func TestContainsAll(t *testing.T) {
	text := "replace valve with different manufacturer model"

	assert.True(t, domain.ContainsAll(text, []string{"different manufacturer", "replace"}))
	assert.False(t, domain.ContainsAll(text, []string{"different manufacturer", "new installation"}))
	assert.True(t, domain.ContainsAll(text, nil), "empty pattern matches vacuously")
}
