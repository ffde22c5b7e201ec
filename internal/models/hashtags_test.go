package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{"Empty content", "", []string{}},
		{"No hashtags", "just a plain sentence", []string{}},
		{"Single hashtag", "hello #world", []string{"world"}},
		{"Multiple hashtags", "#go is great #backend", []string{"go", "backend"}},
		{"Lowercases tags", "loving #GoLang and #GOLANG", []string{"golang"}},
		{"Preserves first-seen order", "#beta then #alpha then #beta again", []string{"beta", "alpha"}},
		{"Underscores and digits", "#go_1 #2nd", []string{"go_1", "2nd"}},
		{"Bare hash ignored", "price # 100 #deal", []string{"deal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractHashtags(tt.content))
		})
	}
}
