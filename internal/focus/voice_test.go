package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchPhrase(t *testing.T) {
	cases := []struct {
		name       string
		transcript string
		want       bool
	}{
		{"exact", "I have prayed", true},
		{"different casing", "i HAVE Prayed", true},
		{"surrounding words", "okay so I have prayed now", true},
		{"punctuation noise", "I... have, prayed!", true},
		{"extra whitespace", "  I   have\tprayed  ", true},
		{"missing key phrase", "I will pray later", false},
		{"empty transcript", "", false},
		{"scrambled order", "prayed have I", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchPhrase(tc.transcript, DefaultPhrase))
		})
	}
}

func TestMatchPhraseCustomTarget(t *testing.T) {
	assert.True(t, MatchPhrase("alhamdulillah, done praying", "done praying"))
	assert.False(t, MatchPhrase("done", "done praying"))
}

func TestMatchPhraseDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.True(t, MatchPhrase("yes I have prayed indeed", DefaultPhrase))
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "i have prayed", normalize(" I--have;;PRAYED? "))
	assert.Equal(t, "", normalize("?!,."))
}
