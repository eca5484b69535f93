package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChunkSingleObject(t *testing.T) {
	e := New()
	records := e.AddChunk(`{"temp":23.5,"humidity":40}`)
	require.Len(t, records, 1)
	assert.Equal(t, 23.5, records[0]["temp"])
	assert.Equal(t, 40.0, records[0]["humidity"])
	assert.Equal(t, 0, e.BufferSize())
}

func TestAddChunkTwoAdjacentObjects(t *testing.T) {
	e := New()
	records := e.AddChunk(`{"a":1}{"b":2}`)
	require.Len(t, records, 2)
	assert.Equal(t, 1.0, records[0]["a"])
	assert.Equal(t, 2.0, records[1]["b"])
	assert.Equal(t, 0, e.BufferSize())
}

func TestAddChunkSplitAcrossCalls(t *testing.T) {
	e := New()

	records := e.AddChunk(`{"a":1}{"b"`)
	require.Len(t, records, 1)
	assert.Equal(t, 1.0, records[0]["a"])

	records = e.AddChunk(`:2}`)
	require.Len(t, records, 1)
	assert.Equal(t, 2.0, records[0]["b"])
	assert.Equal(t, 0, e.BufferSize())
}

func TestAddChunkNoBracesLeavesBufferUntouched(t *testing.T) {
	e := New()
	records := e.AddChunk("plain serial noise\nmore noise")
	assert.Empty(t, records)
	assert.Equal(t, len("plain serial noise\nmore noise"), e.BufferSize())

	stats := e.Stats()
	assert.Equal(t, 0, stats.Received)
}

func TestAddChunkEmptyObjectRejected(t *testing.T) {
	e := New()
	records := e.AddChunk(`{}`)
	assert.Empty(t, records)

	stats := e.Stats()
	assert.Equal(t, 1, stats.Received)
	assert.Equal(t, 0, stats.Parsed)
	assert.Equal(t, 1, stats.Invalid)
	assert.Equal(t, 0, stats.BufferSize)
}

func TestAddChunkMalformedCandidateRejected(t *testing.T) {
	e := New()
	records := e.AddChunk(`{not json}{"ok":true}`)
	require.Len(t, records, 1)
	assert.Equal(t, true, records[0]["ok"])

	stats := e.Stats()
	assert.Equal(t, 2, stats.Received)
	assert.Equal(t, 1, stats.Parsed)
	assert.Equal(t, 1, stats.Invalid)
}

func TestAddChunkPrefixNoiseThenObject(t *testing.T) {
	e := New()
	records := e.AddChunk(`not json{`)
	assert.Empty(t, records)

	records = e.AddChunk(`"a":1}`)
	require.Len(t, records, 1)
	assert.Equal(t, 1.0, records[0]["a"])

	stats := e.Stats()
	assert.Equal(t, 1, stats.Received)
	assert.Equal(t, 1, stats.Parsed)
}

func TestAddChunkMultilineObject(t *testing.T) {
	e := New()
	records := e.AddChunk("{\n  \"moisture\": 512,\n  \"pump\": \"on\"\n}\n")
	require.Len(t, records, 1)
	assert.Equal(t, 512.0, records[0]["moisture"])
}

func TestAddChunkDiscardsUpToLastMatch(t *testing.T) {
	e := New()
	// The invalid span still advances the buffer past its closing brace.
	records := e.AddChunk(`{"a":1} trailing {bad} partial{"c"`)
	require.Len(t, records, 1)
	assert.Equal(t, ` partial{"c"`, e.buffer)
}

func TestAddChunkBraceInsideStringValue(t *testing.T) {
	e := New()
	// The "}" inside the string value ends the candidate early; both
	// resulting spans are malformed and rejected. Documented boundary
	// condition of brace-pair matching.
	records := e.AddChunk(`{"note":"a}b","x":1}`)
	assert.Empty(t, records)

	stats := e.Stats()
	assert.Equal(t, 1, stats.Received)
	assert.Equal(t, 1, stats.Invalid)
}

func TestChunkingInvariance(t *testing.T) {
	input := `noise{"a":1}mid{"b":2}{"c":3}tail noise{"d":4}`
	want := []string{"a", "b", "c", "d"}

	for _, size := range []int{1, 2, 3, 5, 7, len(input)} {
		t.Run(fmt.Sprintf("chunk_size_%d", size), func(t *testing.T) {
			e := New()
			var got []Record
			for start := 0; start < len(input); start += size {
				end := start + size
				if end > len(input) {
					end = len(input)
				}
				got = append(got, e.AddChunk(input[start:end])...)
			}
			require.Len(t, got, len(want))
			for i, key := range want {
				assert.Contains(t, got[i], key)
			}
		})
	}
}

func TestClear(t *testing.T) {
	e := New()
	e.AddChunk(`partial {"a"`)
	require.NotZero(t, e.BufferSize())

	e.Clear()
	assert.Equal(t, 0, e.BufferSize())

	// Next chunk behaves as if no prior input existed.
	records := e.AddChunk(`{"b":2}`)
	require.Len(t, records, 1)
	assert.Equal(t, 2.0, records[0]["b"])
}

func TestStatsParseRate(t *testing.T) {
	e := New()
	for i := 0; i < 7; i++ {
		e.AddChunk(fmt.Sprintf(`{"n":%d}`, i))
	}
	for i := 0; i < 3; i++ {
		e.AddChunk(`{broken}`)
	}

	stats := e.Stats()
	assert.Equal(t, 10, stats.Received)
	assert.Equal(t, 7, stats.Parsed)
	assert.Equal(t, 3, stats.Invalid)
	assert.InDelta(t, 70.0, stats.ParseRate, 0.001)
}

func TestStatsZeroReceived(t *testing.T) {
	e := New()
	stats := e.Stats()
	assert.Equal(t, 0.0, stats.ParseRate)
}

func TestStatsDoesNotMutate(t *testing.T) {
	e := New()
	e.AddChunk(`{"a":1}`)
	first := e.Stats()
	second := e.Stats()
	assert.Equal(t, first, second)
}

func TestCompact(t *testing.T) {
	r := Record{"temp": 23.5, "pump": "on"}
	assert.Equal(t, `{"pump":"on","temp":23.5}`, Compact(r))
}
