package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Ring the bell twice", "Ring the bell twice"},
		{"script block", "Leave at door<script>alert(1)</script>", "Leave at door"},
		{"iframe", `hi<iframe src="x"></iframe>`, "hi"},
		{"javascript scheme", "javascript:alert(1)", "alert(1)"},
		{"inline handler", `<b onclick="steal()">extra cheese</b>`, "<b>extra cheese</b>"},
		{"empty", "", ""},
		{"nested script tag", "<scr<script>ipt>alert(1)", "alert(1)"},
		{"nested javascript scheme", "javajavascript:script:alert(1)", "alert(1)"},
		{"nested inline handler", `<img src=x oonerror="a"nerror="alert(1)">`, "<img src=x>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeHTML(tt.in)
			assert.Equal(t, tt.want, got)
			assert.False(t, ContainsMarkup(got))
		})
	}
}

func TestContainsMarkup(t *testing.T) {
	assert.True(t, ContainsMarkup("12 Main St <SCRIPT>"))
	assert.True(t, ContainsMarkup("JavaScript:void(0)"))
	assert.True(t, ContainsMarkup("<iframe>"))
	assert.False(t, ContainsMarkup("12 Main St, Apt 4"))
}
