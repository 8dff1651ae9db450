package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqmatch/reqmatch/domain/matching"
)

func TestSplitItems(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "simple lines", text: "a\nb\nc", want: []string{"a", "b", "c"}},
		{name: "trims whitespace", text: "  a  \n\tb\t", want: []string{"a", "b"}},
		{name: "drops blank lines", text: "a\n\n  \nb", want: []string{"a", "b"}},
		{name: "windows line endings", text: "a\r\nb", want: []string{"a", "b"}},
		{name: "empty input", text: "", want: nil},
		{name: "whitespace only", text: "  \n\t\n", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitItems(tt.text))
		})
	}
}

func TestRequirementService_Create(t *testing.T) {
	env := newMatchingEnv(t, true)
	ctx := context.Background()

	req, items, err := env.requirements.Create(ctx, "launch checklist", "export data\nsync files", "tester")
	require.NoError(t, err)

	assert.NotZero(t, req.ID())
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", req.SessionID().String())
	assert.Equal(t, matching.StatusPending, req.Status())
	assert.Equal(t, matching.SourceText, req.SourceKind())

	require.Len(t, items, 2)
	assert.Equal(t, "export data", items[0].Text())
	assert.Equal(t, 0, items[0].Order())
	assert.Equal(t, "sync files", items[1].Text())
	assert.Equal(t, 1, items[1].Order())
}

func TestRequirementService_CreateNoItems(t *testing.T) {
	env := newMatchingEnv(t, true)

	_, _, err := env.requirements.Create(context.Background(), "empty", "  \n \n", "tester")
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestRequirementService_CreateFromFile(t *testing.T) {
	env := newMatchingEnv(t, true)
	ctx := context.Background()

	req, items, err := env.requirements.CreateFromFile(ctx, "upload", "checklist.txt",
		[]string{"export data", "", "  sync files  "}, "tester")
	require.NoError(t, err)

	assert.Equal(t, matching.SourceFile, req.SourceKind())
	assert.Equal(t, "checklist.txt", req.SourceFile())
	require.Len(t, items, 2)
	assert.Equal(t, "sync files", items[1].Text())
}

func TestRequirementService_List(t *testing.T) {
	env := newMatchingEnv(t, true)
	ctx := context.Background()

	env.submit(t, "first")
	env.submit(t, "second")

	requirements, err := env.requirements.List(ctx)
	require.NoError(t, err)
	assert.Len(t, requirements, 2)
}
