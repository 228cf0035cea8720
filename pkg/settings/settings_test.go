package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
mail:
  host: smtp.example.com
  port: 587
  from: Team <team@example.com>
  bcc:
    - audit@example.com
  auth:
    user: me
    pass: secret
mailSettings:
  from: legacy@example.com
engines:
  - extension: md
    type: markdown
  - extension: html
    type: html
`

func TestMap(t *testing.T) {
	t.Parallel()

	m := Map{
		"mail":  map[string]any{"host": "smtp"},
		"other": "scalar",
	}

	section, ok := m.Section("mail")
	require.True(t, ok)
	require.Equal(t, "smtp", section["host"])
	section["host"] = "changed"
	again, _ := m.Section("mail")
	require.Equal(t, "smtp", again["host"], "sections are copies")

	_, ok = m.Section("other")
	require.False(t, ok)
	_, ok = m.Section("missing")
	require.False(t, ok)

	v, ok := m.Value("other")
	require.True(t, ok)
	require.Equal(t, "scalar", v)
}

func TestViper_FromBytes(t *testing.T) {
	t.Parallel()

	s, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	mail, ok := s.Section("mail")
	require.True(t, ok)
	require.Equal(t, "smtp.example.com", mail["host"])
	require.Equal(t, 587, mail["port"])
	require.Equal(t, []any{"audit@example.com"}, mail["bcc"])
	require.Equal(t, map[string]any{"user": "me", "pass": "secret"}, mail["auth"])

	legacy, ok := s.Section("mailSettings")
	require.True(t, ok)
	require.Equal(t, "legacy@example.com", legacy["from"])

	engines, ok := s.Value("engines")
	require.True(t, ok)
	require.Len(t, engines, 2)

	_, ok = s.Section("missing")
	require.False(t, ok)
	_, ok = s.Section("engines")
	require.False(t, ok, "a list is not a section")
}

func TestViper_FromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mailkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	s, err := NewViper(path)
	require.NoError(t, err)
	mail, ok := s.Section("mail")
	require.True(t, ok)
	require.Equal(t, "Team <team@example.com>", mail["from"])

	_, err = NewViper(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestViper_EnvOverride(t *testing.T) {
	t.Setenv("MAILKIT_MAIL_HOST", "smtp.override.com")

	s, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	mail, ok := s.Section("mail")
	require.True(t, ok)
	require.Equal(t, "smtp.override.com", mail["host"])
}

func TestViper_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewViperFromBytes("", nil)
	require.Error(t, err)

	_, err = NewViperFromBytes("yaml", []byte("mail: [unclosed"))
	require.Error(t, err)
}
