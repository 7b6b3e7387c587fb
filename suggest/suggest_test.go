package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaroWinklerIdenticalStrings(t *testing.T) {
	assert.Equal(t, 1.0, JaroWinkler("docker", "docker"))
}

func TestJaroWinklerCompletelyDifferent(t *testing.T) {
	assert.Equal(t, 0.0, JaroWinkler("abc", "xyz"))
}

func TestJaroWinklerCloseMisspelling(t *testing.T) {
	score := JaroWinkler("dcoker", "docker")
	assert.Greater(t, score, 0.8)
}

func TestJaroWinklerEmptyString(t *testing.T) {
	assert.Equal(t, 0.0, JaroWinkler("", "docker"))
	assert.Equal(t, 0.0, JaroWinkler("docker", ""))
}

func TestNearestFiltersByThresholdAndExcludesSelf(t *testing.T) {
	out := Nearest("docker", []string{"docker", "dcoker", "dokcer", "kubernetes", "node"})
	assert.NotContains(t, out, "docker")
	assert.Contains(t, out, "dcoker")
}

func TestNearestCapsAtMaxSuggestions(t *testing.T) {
	out := Nearest("docker", []string{"dcoker", "dokcer", "dockre", "dokcre"})
	assert.LessOrEqual(t, len(out), MaxSuggestions)
}

func TestNearestOrdersByDescendingSimilarity(t *testing.T) {
	out := Nearest("docker", []string{"dokcer", "dcoker"})
	if len(out) == 2 {
		assert.GreaterOrEqual(t, JaroWinkler("docker", out[0]), JaroWinkler("docker", out[1]))
	}
}

func TestNearestNoMatches(t *testing.T) {
	out := Nearest("docker", []string{"kubernetes", "terraform"})
	assert.Empty(t, out)
}
