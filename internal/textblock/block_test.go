package textblock_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveligulas/debian-setup/internal/textblock"
)

const (
	start = "# >>> managed >>>"
	end   = "# <<< managed <<<"
)

func TestNewBlock(t *testing.T) {
	t.Parallel()

	t.Run("valid markers", func(t *testing.T) {
		t.Parallel()
		b, err := textblock.NewBlock(start, end)
		require.NoError(t, err)
		assert.Equal(t, start, b.Start)
		assert.Equal(t, end, b.End)
	})

	t.Run("rejects empty markers", func(t *testing.T) {
		t.Parallel()
		_, err := textblock.NewBlock("", end)
		assert.Error(t, err)
		_, err = textblock.NewBlock(start, "")
		assert.Error(t, err)
	})

	t.Run("rejects identical markers", func(t *testing.T) {
		t.Parallel()
		_, err := textblock.NewBlock(start, start)
		assert.Error(t, err)
	})
}

func TestBlockSync(t *testing.T) {
	t.Parallel()
	block := textblock.Block{Start: start, End: end}

	t.Run("appends block to existing content", func(t *testing.T) {
		t.Parallel()
		out, err := block.Sync("existing line\n", "alias ll='ls -lah'\n")
		require.NoError(t, err)
		assert.Equal(t, "existing line\n\n"+start+"\nalias ll='ls -lah'\n"+end+"\n", out)
	})

	t.Run("replaces stale body instead of merging", func(t *testing.T) {
		t.Parallel()
		content := "top\n\n" + start + "\nalias old='x'\n" + end + "\n"
		out, err := block.Sync(content, "alias new='y'\n")
		require.NoError(t, err)
		assert.NotContains(t, out, "alias old")
		assert.Contains(t, out, "alias new='y'")
		assert.Contains(t, out, "top\n")
	})

	t.Run("repeated sync is byte-stable", func(t *testing.T) {
		t.Parallel()
		body := "export EDITOR=\"vim\"\n"
		once, err := block.Sync("# header\n", body)
		require.NoError(t, err)
		twice, err := block.Sync(once, body)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("collapses duplicate spans", func(t *testing.T) {
		t.Parallel()
		content := start + "\na\n" + end + "\nmiddle\n" + start + "\nb\n" + end + "\n"
		out, err := block.Sync(content, "c\n")
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(out, start))
		assert.Contains(t, out, "middle\n")
	})

	t.Run("unterminated block is an error", func(t *testing.T) {
		t.Parallel()
		content := "keep\n" + start + "\norphaned content\n"
		_, err := block.Sync(content, "body\n")
		assert.ErrorIs(t, err, textblock.ErrUnterminatedBlock)
	})

	t.Run("empty file gets just the block", func(t *testing.T) {
		t.Parallel()
		out, err := block.Sync("", "x\n")
		require.NoError(t, err)
		assert.Equal(t, "\n"+start+"\nx\n"+end+"\n", out)
	})
}

func TestBlockRemove(t *testing.T) {
	t.Parallel()
	block := textblock.Block{Start: start, End: end}

	t.Run("no marker is a no-op", func(t *testing.T) {
		t.Parallel()
		out, removed, err := block.Remove("plain\ncontent\n")
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Equal(t, "plain\ncontent\n", out)
	})

	t.Run("indented marker does not delimit", func(t *testing.T) {
		t.Parallel()
		content := "  " + start + "\nnot managed\n"
		out, removed, err := block.Remove(content)
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Equal(t, content, out)
	})

	t.Run("strips span and separator", func(t *testing.T) {
		t.Parallel()
		content := "keep\n\n" + start + "\nmanaged\n" + end + "\n"
		out, removed, err := block.Remove(content)
		require.NoError(t, err)
		assert.True(t, removed)
		assert.Equal(t, "keep\n", out)
	})
}

func TestBlockBody(t *testing.T) {
	t.Parallel()
	block := textblock.Block{Start: start, End: end}

	t.Run("missing block", func(t *testing.T) {
		t.Parallel()
		_, found, err := block.Body("nothing here\n")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("extracts body without markers", func(t *testing.T) {
		t.Parallel()
		body, found, err := block.Body(start + "\nline one\nline two\n" + end + "\n")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "line one\nline two\n", body)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		body, found, err := block.Body(start + "\n" + end + "\n")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Empty(t, body)
	})

	t.Run("unterminated", func(t *testing.T) {
		t.Parallel()
		_, _, err := block.Body(start + "\ndangling\n")
		assert.ErrorIs(t, err, textblock.ErrUnterminatedBlock)
	})
}
