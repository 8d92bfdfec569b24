package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lingosync/internal/config"
	"github.com/at-ishikawa/lingosync/internal/lesson"
	"github.com/at-ishikawa/lingosync/internal/testutil"
)

// useFakeRemote points the commands at an in-memory remote store and returns it with a config path.
func useFakeRemote(t *testing.T) (*testutil.FakeRemote, string) {
	t.Helper()
	fake := testutil.NewFakeRemote()

	oldOpenBackend := openBackend
	openBackend = func(cfg *config.Config, logger *slog.Logger) (backend, io.Closer, error) {
		return fake, nil, nil
	}
	t.Cleanup(func() { openBackend = oldOpenBackend })

	return fake, testutil.SetupTestConfig(t, t.TempDir())
}

// runCommand executes the root command with args and returns what it wrote.
func runCommand(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	oldConfigFile := configFile
	t.Cleanup(func() { configFile = oldConfigFile })

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// seedLesson adds lesson 1_1 with two practice pages and two vocabulary terms.
func seedLesson(fake *testutil.FakeRemote) {
	fake.AddLesson(
		lesson.Meta{ChapterNo: 1, LessonNo: 1, LessonTitle: "Greetings", ChapterTitle: "Basics"},
		[]lesson.Line{
			{ChapterNo: 1, LessonNo: 1, Page: 1, Speaker: "A", Chinese: "你好", Pinyin: "nǐ hǎo", Translation: "hello"},
			{ChapterNo: 1, LessonNo: 1, Page: 2, Speaker: "B", Chinese: "谢谢", Pinyin: "xiè xie", Translation: "thanks"},
		},
		[]lesson.Question{
			{ChapterNo: 1, LessonNo: 1, Page: 3, QuestionText: "How do you say hello?", Answer: "Nǐ hǎo"},
		},
		[]lesson.VocabRow{
			{Vocab: "你好", Pinyin: "nǐ hǎo", Translation: "hello"},
			{Vocab: "谢谢", Pinyin: "xiè xie", Translation: "thanks"},
		},
	)
}

// setupBrokenConfigFile creates a config file with invalid YAML that causes Load() to fail.
func setupBrokenConfigFile(t *testing.T) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{invalid yaml content"), 0644))
	return cfgPath
}
