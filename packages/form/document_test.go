package form

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html>
<body>
  <form id="addFactForm">
    <input type="text" name="animal" value="cat">
    <input type="text" name="fact" value="purrs">
    <input type="submit" value="Add">
  </form>
  <form id="askForm">
    <input name="question" value="cats">
  </form>
  <form id="factForm">
    <input name="fact_id" value="42">
    <button type="submit">Get</button>
  </form>
  <form id="emptyForm">
    <input type="text" value="no name">
    <button name="go">Go</button>
  </form>
</body>
</html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	require.NoError(t, err)
	return doc
}

func TestDocument_Fields(t *testing.T) {
	doc := mustParse(t, page)

	tests := []struct {
		form     string
		expected Fields
	}{
		{"addFactForm", Fields{"animal": "cat", "fact": "purrs"}},
		{"askForm", Fields{"question": "cats"}},
		{"factForm", Fields{"fact_id": "42"}},
		{"emptyForm", Fields{}},
		{"missingForm", Fields{}},
	}

	for _, tt := range tests {
		t.Run(tt.form, func(t *testing.T) {
			assert.Equal(t, tt.expected, doc.Fields(tt.form))
		})
	}
}

func TestDocument_Fields_OrderIndependent(t *testing.T) {
	a := mustParse(t, `<form id="f"><input name="x" value="1"><input name="y" value="2"></form>`)
	b := mustParse(t, `<form id="f"><input name="y" value="2"><input name="x" value="1"></form>`)

	assert.Equal(t, a.Fields("f"), b.Fields("f"))
}

func TestDocument_Fields_Controls(t *testing.T) {
	doc := mustParse(t, `
<form id="f">
  <input type="checkbox" name="pet" checked>
  <input type="checkbox" name="wild" value="yes">
  <input type="radio" name="size" value="small">
  <input type="radio" name="size" value="large" checked>
  <input type="hidden" name="token" value="abc">
  <input type="file" name="upload">
  <input type="reset" name="reset" value="Reset">
  <input type="image" name="img" src="x.png">
  <input name="off" value="x" disabled>
  <textarea name="notes">line one
line two</textarea>
  <select name="color">
    <option value="red">Red</option>
    <option selected>  Deep   Blue </option>
  </select>
  <select name="habitat">
    <option disabled>Pick one</option>
    <option value="river">River</option>
  </select>
  <select name="diet" multiple>
    <option value="fish" selected>Fish</option>
    <option value="mice" selected>Mice</option>
  </select>
  <select name="none"></select>
  <fieldset disabled>
    <legend><input name="legend" value="kept"></legend>
    <input name="fenced" value="dropped">
  </fieldset>
</form>`)

	fields := doc.Fields("f")

	assert.Equal(t, Fields{
		"pet":     "on",
		"size":    "large",
		"token":   "abc",
		"notes":   "line one\r\nline two",
		"color":   "Deep Blue",
		"habitat": "river",
		"diet":    "mice",
		"legend":  "kept",
	}, fields)
}

func TestDocument_Fields_FormAttribute(t *testing.T) {
	doc := mustParse(t, `
<form id="f"><input name="inside" value="1"></form>
<input name="outside" form="f" value="2">
<form id="g"><input name="stolen" form="f" value="3"></form>`)

	assert.Equal(t, Fields{"inside": "1", "outside": "2", "stolen": "3"}, doc.Fields("f"))
	assert.Equal(t, Fields{}, doc.Fields("g"))
}

func TestDocument_Fields_FirstElementWithIDWins(t *testing.T) {
	doc := mustParse(t, `
<div id="f"><input name="a" value="1"></div>
<form id="f"><input name="b" value="2"></form>
<input name="c" form="f" value="3">`)

	assert.Equal(t, Fields{}, doc.Fields("f"))
	assert.False(t, doc.HasForm("f"))
	assert.ErrorIs(t, doc.SetValue("f", "b", "x"), ErrFormNotFound)
}

func TestDocument_Fields_DuplicateNameLastWins(t *testing.T) {
	doc := mustParse(t, `<form id="f"><input name="a" value="1"><input name="a" value="2"></form>`)

	assert.Equal(t, Fields{"a": "2"}, doc.Fields("f"))
}

func TestDocument_Fields_FreshEachCall(t *testing.T) {
	doc := mustParse(t, page)

	first := doc.Fields("askForm")
	first["question"] = "mutated"

	assert.Equal(t, "cats", doc.Fields("askForm")["question"])
}

func TestDocument_SetValue(t *testing.T) {
	doc := mustParse(t, `
<form id="f">
  <input name="animal" value="cat">
  <textarea name="fact">old</textarea>
  <select name="kind"><option value="a" selected>A</option><option value="b">B</option></select>
  <input type="radio" name="size" value="small" checked>
  <input type="radio" name="size" value="large">
  <input type="checkbox" name="pet" value="yes">
</form>`)

	require.NoError(t, doc.SetValue("f", "animal", "dog"))
	require.NoError(t, doc.SetValue("f", "fact", "barks"))
	require.NoError(t, doc.SetValue("f", "kind", "b"))
	require.NoError(t, doc.SetValue("f", "size", "large"))
	require.NoError(t, doc.SetValue("f", "pet", "yes"))

	assert.Equal(t, Fields{
		"animal": "dog",
		"fact":   "barks",
		"kind":   "b",
		"size":   "large",
		"pet":    "yes",
	}, doc.Fields("f"))
}

func TestDocument_SetValue_AddsMissingValueAttr(t *testing.T) {
	doc := mustParse(t, `<form id="f"><input name="question"></form>`)

	assert.Equal(t, Fields{"question": ""}, doc.Fields("f"))
	require.NoError(t, doc.SetValue("f", "question", "cats"))
	assert.Equal(t, Fields{"question": "cats"}, doc.Fields("f"))
}

func TestDocument_SetValue_Errors(t *testing.T) {
	doc := mustParse(t, page+`<form id="s"><select name="k"><option>a</option></select></form>`)

	assert.ErrorIs(t, doc.SetValue("nope", "x", "1"), ErrFormNotFound)
	assert.ErrorIs(t, doc.SetValue("askForm", "missing", "1"), ErrControlNotFound)
	assert.ErrorIs(t, doc.SetValue("s", "k", "z"), ErrNoSuchOption)
}

func TestDocument_FormIDs(t *testing.T) {
	doc := mustParse(t, page)

	assert.Equal(t, []string{"addFactForm", "askForm", "factForm", "emptyForm"}, doc.FormIDs())
	assert.True(t, doc.HasForm("askForm"))
	assert.False(t, doc.HasForm("other"))
}

func TestDocument_Render(t *testing.T) {
	doc := mustParse(t, page)
	require.NoError(t, doc.SetValue("askForm", "question", "otters"))

	var buf bytes.Buffer
	require.NoError(t, doc.Render(&buf))

	again, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, Fields{"question": "otters"}, again.Fields("askForm"))
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0644))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, Fields{"fact_id": "42"}, doc.Fields("factForm"))

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}

func TestDocument_ConcurrentAccess(t *testing.T) {
	doc := mustParse(t, page)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = doc.SetValue("askForm", "question", "cats")
		}()
		go func() {
			defer wg.Done()
			_ = doc.Fields("askForm")
		}()
	}
	wg.Wait()

	assert.Equal(t, "cats", doc.Fields("askForm")["question"])
}
