package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	positionSentence = "!AIVDM,1,1,,A,15MgK45P3@G?fl0E`JbR0OwT0@MS,0*4E"
	multipartFirst   = "!AIVDM,2,1,1,A,51mg=5@2Fe3u@E=C7;<mDi@V1059B1@E=B1HE==6<Pj:?5GfN<T3lU83i`3E,0*59"
	multipartSecond  = "!AIVDM,2,2,1,A,C52D0DU51Dh,2*1C"
)

func TestNewApplicationDefaults(t *testing.T) {
	app := NewApplication(Config{})
	assert.Equal(t, DefaultMessageTimeout, app.config.MessageTimeout)
	assert.Equal(t, DefaultMaxGroups, app.config.MaxGroups)
	assert.NotNil(t, app.parser)
}

func TestDecodeStreamCountsMessages(t *testing.T) {
	app := NewApplication(Config{})

	input := strings.Join([]string{
		"# comment lines are skipped",
		positionSentence,
		"",
		multipartFirst,
		multipartSecond,
		"!AIVDM,1,1,,A,15MgK45P3@G?fl0E`JbR0OwT0@MS,0*4F", // bad checksum
		"not a sentence at all",
	}, "\n")

	err := app.decodeStream(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, uint64(5), app.sentences, "blank and comment lines are not counted")
	assert.Equal(t, uint64(2), app.messages)
	assert.Equal(t, uint64(1), app.fragments)
	assert.Equal(t, uint64(2), app.parseFails)
}

func TestRunReadsInputFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sentences.txt")
	content := positionSentence + "\n" + multipartFirst + "\n" + multipartSecond + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	app := NewApplication(Config{InputFile: path})
	require.NoError(t, app.Run())
	assert.Equal(t, uint64(2), app.messages)
}

func TestRunMissingInputFile(t *testing.T) {
	app := NewApplication(Config{InputFile: "/nonexistent/sentences.txt"})
	err := app.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input")
}

func TestRunWritesRotatedLog(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(input, []byte(positionSentence+"\n"), 0644))

	logDir := filepath.Join(dir, "logs")
	app := NewApplication(Config{InputFile: input, LogDir: logDir, LogRotateUTC: true})
	require.NoError(t, app.Run())

	files, err := filepath.Glob(filepath.Join(logDir, "ais_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "366730000")
}
