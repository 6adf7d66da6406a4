package pkg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestINIDocument(t *testing.T) {
	t.Run("round trip preserves bytes", func(t *testing.T) {
		inputs := []string{
			"[sqlserver]\nserver = 10.0.0.1\nport = 1433\n",
			"; leading comment\r\n[sqlserver]\r\nserver = 10.0.0.1\r\n\r\npassword = x\r\n",
			"# hash comment\nkey=value",
			"",
			"\n\n\n",
			"not an ini line at all\n= dangling separator\n",
		}

		for _, input := range inputs {
			doc := ParseINI([]byte(input))
			require.Equal(t, input, string(doc.Bytes()))
		}
	})

	t.Run("Set rewrites only matching lines", func(t *testing.T) {
		input := "[sqlserver]\n" +
			"server = 10.0.0.1\n" +
			"port = 1433\n" +
			"database = cabinet\n" +
			"password = old\n"

		doc := ParseINI([]byte(input))
		require.True(t, doc.Set("server", "192.168.10.219"))
		require.True(t, doc.Set("password", "Rivamed@2022"))

		want := "[sqlserver]\n" +
			"server = 192.168.10.219\n" +
			"port = 1433\n" +
			"database = cabinet\n" +
			"password = Rivamed@2022\n"
		require.Equal(t, want, string(doc.Bytes()))
	})

	t.Run("Set preserves CRLF and surrounding lines", func(t *testing.T) {
		input := "; deployment config\r\n[sqlserver]\r\nserver = old\r\nport = 1433\r\n"

		doc := ParseINI([]byte(input))
		require.True(t, doc.Set("server", "new"))

		want := "; deployment config\r\n[sqlserver]\r\nserver = new\r\nport = 1433\r\n"
		require.Equal(t, want, string(doc.Bytes()))
	})

	t.Run("Set keeps the author's separator spacing", func(t *testing.T) {
		doc := ParseINI([]byte("server=old\nport =1433\ndriver:  odbc\n"))
		require.True(t, doc.Set("server", "new"))
		require.True(t, doc.Set("driver", "other"))

		require.Equal(t, "server=new\nport =1433\ndriver:  other\n", string(doc.Bytes()))
	})

	t.Run("Set discards inline comments on rewritten lines", func(t *testing.T) {
		doc := ParseINI([]byte("server = old ; production host\n"))
		require.True(t, doc.Set("server", "new"))
		require.Equal(t, "server = new\n", string(doc.Bytes()))
	})

	t.Run("Set is idempotent", func(t *testing.T) {
		doc := ParseINI([]byte("server = old\r\npassword = x\r\n"))
		doc.Set("server", "192.168.10.219")
		first := string(doc.Bytes())

		again := ParseINI([]byte(first))
		again.Set("server", "192.168.10.219")
		require.Equal(t, first, string(again.Bytes()))
	})

	t.Run("Set reports missing keys", func(t *testing.T) {
		doc := ParseINI([]byte("[sqlserver]\nport = 1433\n"))
		require.False(t, doc.Set("server", "x"))
		require.Equal(t, "[sqlserver]\nport = 1433\n", string(doc.Bytes()))
	})

	t.Run("Set matches keys with leading whitespace", func(t *testing.T) {
		doc := ParseINI([]byte("  server = old\n"))
		require.True(t, doc.Set("server", "new"))
		require.Equal(t, "  server = new\n", string(doc.Bytes()))
	})

	t.Run("Set is case-sensitive", func(t *testing.T) {
		doc := ParseINI([]byte("Server = old\n"))
		require.False(t, doc.Set("server", "new"))
	})

	t.Run("comments and sections never match as keys", func(t *testing.T) {
		doc := ParseINI([]byte("; server = commented out\n[server]\nserver = real\n"))
		require.True(t, doc.Set("server", "new"))
		require.Equal(t, "; server = commented out\n[server]\nserver = new\n", string(doc.Bytes()))
	})

	t.Run("Get returns the value", func(t *testing.T) {
		doc := ParseINI([]byte("server = 10.0.0.1  \nempty =\n"))

		got, ok := doc.Get("server")
		require.True(t, ok)
		require.Equal(t, "10.0.0.1", got)

		got, ok = doc.Get("empty")
		require.True(t, ok)
		require.Equal(t, "", got)

		_, ok = doc.Get("missing")
		require.False(t, ok)
	})

	t.Run("Has reports key presence", func(t *testing.T) {
		doc := ParseINI([]byte("server = x\n"))
		require.True(t, doc.Has("server"))
		require.False(t, doc.Has("password"))
	})
}
