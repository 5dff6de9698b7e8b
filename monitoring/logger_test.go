package monitoring

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	assert := assert.New(t)

	orig := Logf
	defer func() { Logf = orig }()

	var got []string
	SetLogger(func(format string, v ...interface{}) {
		got = append(got, fmt.Sprintf(format, v...))
	})
	Logf("resampled %d particles", 10)
	assert.Equal([]string{"resampled 10 particles"}, got)

	SetLogger(nil)
	assert.NotPanics(func() { Logf("muted %d", 1) })
	assert.Len(got, 1)
}

func TestResetLogger(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	std.SetOutput(&buf)
	defer std.SetOutput(os.Stderr)

	SetLogger(nil)
	Logf("muted")
	assert.Empty(buf.String())

	ResetLogger()
	Logf("all %d particle weights are zero", 3)
	assert.Contains(buf.String(), Prefix)
	assert.Contains(buf.String(), "all 3 particle weights are zero")
}
