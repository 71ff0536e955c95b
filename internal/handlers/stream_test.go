package handlers

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetrina/internal/live"
)

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	double := func(xs []int) interface{} {
		out := make([]int, len(xs))
		for i, x := range xs {
			out[i] = x * 2
		}
		return out
	}

	require.NoError(t, writeEvent(w, live.Snapshot[int]{Records: []int{1, 2}}, double))
	assert.Equal(t, "event: snapshot\ndata: [2,4]\n\n", buf.String())

	buf.Reset()
	require.NoError(t, writeEvent(w, live.Snapshot[int]{Err: errors.New("offline")}, double))
	assert.Equal(t, "event: error\ndata: {\"error\":\"offline\",\"message\":\"Could not load data\"}\n\n", buf.String())
}
