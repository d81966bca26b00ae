package frontmatter

// MergeNotes combines a template and a current note. Template metadata fills
// gaps in the note's metadata. With useTemplateBody the template body is kept
// before the current body; otherwise only the current body survives.
func MergeNotes(templateContent, currentContent string, useTemplateBody bool) (string, error) {
	tpl := Split(templateContent)
	cur := Split(currentContent)

	merged := MergeSuggestions(Parse(cur.Text), Parse(tpl.Text))

	body := cur.Body
	if useTemplateBody {
		body = joinSegments(tpl.Body, cur.Body)
	}
	return Compose(merged, body)
}
