package utils_test

import (
	"testing"

	"github.com/apphgio/tools_platform_app/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple name", "Report Builder", "report-builder"},
		{"punctuation stripped", "Generador de Reportes!", "generador-de-reportes"},
		{"runs collapse to one hyphen", "A  --  B", "a-b"},
		{"leading and trailing noise trimmed", "  (Beta) Tool  ", "beta-tool"},
		{"digits kept", "Tool v2", "tool-v2"},
		{"already a slug", "my-tool", "my-tool"},
		{"empty input", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.Slugify(tt.in))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	once := utils.Slugify("Generador de Reportes!")
	assert.Equal(t, once, utils.Slugify(once))
}
