package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/botica-chatbot/internal/dialogue"
	"github.com/wolfman30/botica-chatbot/internal/session"
)

type recordingEngine struct {
	keys     []string
	messages []string
	err      error
}

func (e *recordingEngine) Handle(_ context.Context, key, message string) (dialogue.Reply, error) {
	if e.err != nil {
		return dialogue.Reply{}, e.err
	}
	e.keys = append(e.keys, key)
	e.messages = append(e.messages, message)
	return dialogue.Reply{Text: "re: " + message, SessionKey: "session_repl", Step: session.StepMenu}, nil
}

func TestRunChatKeepsSessionKey(t *testing.T) {
	engine := &recordingEngine{}
	var out bytes.Buffer

	err := runChat(context.Background(), engine, strings.NewReader("hola\n\n  2 \nsalir\nignored\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"hola", "2"}, engine.messages)
	assert.Equal(t, []string{"", "session_repl"}, engine.keys)
	assert.Contains(t, out.String(), "re: hola")
	assert.NotContains(t, out.String(), "ignored")
}

func TestRunChatPropagatesEngineError(t *testing.T) {
	engine := &recordingEngine{err: errors.New("store down")}
	err := runChat(context.Background(), engine, strings.NewReader("hola\n"), &bytes.Buffer{})
	assert.ErrorContains(t, err, "store down")
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["chat"])
}
