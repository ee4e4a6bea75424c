package ingest

import (
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

// celFilter wraps a compiled CEL admission expression evaluated per ingested
// topic message. When disabled, Admit always returns true.
//
// Admission runs before commit, so a rejected message never reaches storage
// or the live bus. Rejecting single messages of a topic whose later messages
// are admitted leaves a sequence gap: storage cannot backfill it, so a live
// subscription that meets it fails with ErrMissingMessages.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("topic_num", cel.IntType),
		cel.Variable("sequence", cel.IntType),
		cel.Variable("consensus_timestamp", cel.IntType),
		cel.Variable("size", cel.IntType),
		cel.Variable("text", cel.StringType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Admit evaluates the expression against a message. Evaluation errors reject.
func (f celFilter) Admit(m *topic.Message) bool {
	if !f.enabled {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"topic_num":           int64(m.TopicID),
		"sequence":            int64(m.SequenceNumber),
		"consensus_timestamp": m.ConsensusTimestamp,
		"size":                int64(len(m.Message)),
		"text":                string(m.Message),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
