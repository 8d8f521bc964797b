package rewrite

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genericAlert() *Pattern {
	return MustBacktrackPattern("generic-alert", KindParameterized, `(?<!\.)alert\((['"].*?['"])\)`,
		func(g []string) string { return "Swal.fire({ icon: 'info', text: " + g[1] + " })" })
}

func clipboardAlert() *Pattern {
	return MustPattern("clipboard-alert", KindCompound, `(navigator\.clipboard\.writeText\([^)]+\));alert\((.*?)\)`,
		func(g []string) string { return g[1] + ".then(() => Swal.fire({ icon: 'success', text: " + g[2] + " }))" })
}

func TestLiteral(t *testing.T) {
	r := NewLiteral("invalid code", "alert('無効なコードです');", "Swal.fire({ icon: 'error', text: '無効なコードです' });")

	out, n, err := r.Apply("x;\nalert('無効なコードです');\ny;\n")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "x;\nSwal.fire({ icon: 'error', text: '無効なコードです' });\ny;\n", out)
	assert.NotContains(t, out, r.Old)

	out2, n, err := r.Apply(out)
	require.NoError(t, err)
	assert.Zero(t, n, "second application finds nothing")
	assert.Equal(t, out, out2)

	assert.Equal(t, KindLiteral, r.Kind())
	_, n, _ = Literal{}.Apply("abc")
	assert.Zero(t, n)
}

func TestLiteral_DollarAndBackslashArePassedThrough(t *testing.T) {
	r := NewLiteral("template", "alert(`${name}\\n`);", "Swal.fire({ text: `${name}\\n` });")
	out, n, err := r.Apply("alert(`${name}\\n`);")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "Swal.fire({ text: `${name}\\n` });", out)
}

func TestLineLiteral(t *testing.T) {
	r := LineLiteral{
		Label:  "step questions endpoint",
		Anchor: "axios.get(`/api/teacher/questions?step_id=${stepId}`)",
		Old:    "/api/teacher/questions",
		New:    "/api/teacher/step-questions",
	}
	text := "const a = await axios.get(`/api/teacher/questions?step_id=${stepId}`);\n" +
		"const b = await axios.post('/api/teacher/questions', body);\n"
	out, n, err := r.Apply(text)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, out, "axios.get(`/api/teacher/step-questions?step_id=${stepId}`)")
	assert.Contains(t, out, "axios.post('/api/teacher/questions', body)", "lines without the anchor are untouched")

	out2, n, _ := r.Apply(out)
	assert.Zero(t, n)
	assert.Equal(t, out, out2)
}

func TestPattern_ParameterFidelity(t *testing.T) {
	p := MustPattern("variable-alert", KindParameterized, `alert\(([a-zA-Z0-9_.]+)\);`,
		func(g []string) string { return "Swal.fire({ icon: 'info', title: '通知', text: " + g[1] + " });" })

	for _, expr := range []string{"msg", "e.message", "res.data.error", "a.b.c.d_e"} {
		out, n, err := p.Apply("alert(" + expr + ");")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, "Swal.fire({ icon: 'info', title: '通知', text: "+expr+" });", out)
	}
}

func TestPattern_CapturesInsertedLiterally(t *testing.T) {
	p := MustPattern("wrap", KindParameterized, `wrap\((.*?)\)`,
		func(g []string) string { return "box($1 " + g[1] + ")" })
	out, n, err := p.Apply("wrap(`${a}$2\\n`)")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "box($1 `${a}$2\\n`)", out)
}

func TestBacktrackPattern_Lookbehind(t *testing.T) {
	p := genericAlert()
	out, n, err := p.Apply("window.alert('keep'); alert('Deleted');")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "window.alert('keep'); Swal.fire({ icon: 'info', text: 'Deleted' });", out)
	assert.Contains(t, p.Expr(), "(?<!")
}

func TestBacktrackPattern_MultibyteText(t *testing.T) {
	out, n, err := genericAlert().Apply("前;alert('削除しました');後")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "前;Swal.fire({ icon: 'info', text: '削除しました' });後", out)
}

func TestNewPattern_BadExpr(t *testing.T) {
	_, err := NewPattern("bad", KindLiteral, `(`, nil)
	assert.Error(t, err)
	_, err = NewBacktrackPattern("bad", KindLiteral, `(`, nil)
	assert.Error(t, err)
	assert.Panics(t, func() { MustPattern("bad", KindLiteral, `(`, nil) })
}

func TestRuleSet_OrderingRequired(t *testing.T) {
	doc := "<button onclick=\"navigator.clipboard.writeText('ABC');alert('コピーしました')\">"

	rs, err := NewRuleSet([]Rule{clipboardAlert(), genericAlert()}, Order{First: "clipboard-alert", Then: "generic-alert"})
	require.NoError(t, err)
	out, rep := rs.Apply(doc)
	assert.Contains(t, out, "navigator.clipboard.writeText('ABC').then(() => Swal.fire({ icon: 'success', text: 'コピーしました' }))")
	assert.Equal(t, 1, rep.Total())

	// The reversed order is rejected instead of silently losing the composite.
	_, err = NewRuleSet([]Rule{genericAlert(), clipboardAlert()}, Order{First: "clipboard-alert", Then: "generic-alert"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRuleOrder))

	// Run by hand in the wrong order, the generic rule eats the composite's text.
	partial, _, _ := genericAlert().Apply(doc)
	_, n, _ := clipboardAlert().Apply(partial)
	assert.Zero(t, n)
	assert.NotContains(t, partial, ".then(")
}

func TestRuleSet_Validation(t *testing.T) {
	_, err := NewRuleSet([]Rule{genericAlert(), genericAlert()})
	assert.True(t, errors.Is(err, ErrDuplicateRule))

	_, err = NewRuleSet([]Rule{genericAlert()}, Order{First: "missing", Then: "generic-alert"})
	assert.True(t, errors.Is(err, ErrRuleOrder))

	assert.Panics(t, func() { MustRuleSet([]Rule{genericAlert(), genericAlert()}) })
}

func TestRuleSet_ChainsOutputAndReports(t *testing.T) {
	rs := MustRuleSet([]Rule{
		NewLiteral("a-to-b", "a", "b"),
		NewLiteral("b-to-c", "b", "c"),
		NewLiteral("missing", "zzz", "y"),
	})
	out, rep := rs.Apply("a a")
	assert.Equal(t, "c c", out)

	res, ok := rep.Lookup("b-to-c")
	require.True(t, ok)
	assert.Equal(t, 2, res.Count, "second rule sees the first rule's output")

	miss, ok := rep.Lookup("missing")
	require.True(t, ok)
	assert.False(t, miss.Found())
	assert.Equal(t, 4, rep.Total())
	assert.Empty(t, rep.Failed())

	_, ok = rep.Lookup("nope")
	assert.False(t, ok)
	assert.Len(t, rs.Rules(), 3)
	assert.Empty(t, rs.Orders())
}

type failingRule struct{}

func (failingRule) Name() string { return "fails" }
func (failingRule) Kind() Kind   { return KindLiteral }
func (failingRule) Apply(text string) (string, int, error) {
	return strings.ToUpper(text), 1, errors.New("boom")
}

func TestRuleSet_FailingRuleLeavesText(t *testing.T) {
	rs := MustRuleSet([]Rule{failingRule{}, NewLiteral("x", "a", "b")})
	out, rep := rs.Apply("a")
	assert.Equal(t, "b", out)
	require.Len(t, rep.Failed(), 1)
	assert.Equal(t, "boom", rep.Failed()[0].Error)
	assert.Zero(t, rep.Failed()[0].Count)
}
