package i18n

var english = map[string]string{
	"apply.noteNotFound":       "Note not found: {path}",
	"apply.noTemplates":        "No templates available",
	"apply.selectTemplate":     "Select a template",
	"apply.noTemplateSelected": "No template selected",
	"apply.templateNotFound":   "Template not found: {template}",
	"apply.applying":           "Applying template {template}",
	"apply.applied":            "Template {template} applied to {path}",
	"apply.fetchError":         "Could not fetch {url}, continuing without context: {error}",
	"apply.generationFailed":   "The generator returned no result",
	"apply.saveError":          "Could not save {path}: {error}",
	"apply.moved":              "Moved to {path}",
	"apply.moveError":          "Could not move note to {path}: {error}",
	"apply.commandError":       "Command {command} failed: {error}",
	"apply.noContext":          "(no context)",
	"apply.prompt": `Note title: {title}

Current metadata (JSON):
{frontmatter}

Current body:
{body}

Context from {url}:
{context}

Instructions:
{prompt}

Reply with a single JSON object with two fields: "frontmatter", an object with metadata suggestions, and "body", the complete Markdown body. Do not suggest tags.`,

	"enhance.noPrompt":                "No prompt configured for this note",
	"enhance.enhancing":               "Enhancing {path}",
	"enhance.enhanced":                "Note enhanced",
	"enhance.failed":                  "Could not enhance the note",
	"enhance.promptNote":              "You are improving the note titled \"{title}\".",
	"enhance.promptCommands":          "Additional instructions:",
	"enhance.promptFrontmatter":       "Current metadata (JSON):\n{json}",
	"enhance.promptBody":              "Current body:\n{body}",
	"enhance.promptReturnJson":        "Reply only with a JSON object.",
	"enhance.promptReturnBody":        "Put new Markdown content in \"body\". It will be appended to the note.",
	"enhance.promptReturnFrontmatter": "Put metadata changes in \"frontmatter\", including only fields you change.",
	"enhance.promptInvalidChars":      "Never use the characters * \" \\ / < > : | ? inside [[links]].",

	"images.searching":     "Searching images for {query}",
	"images.notFound":      "No images found for {query}",
	"images.foundCount":    "Found {count} images",
	"images.searchError":   "Image search failed: {error}",
	"images.noteHasImages": "The note already has images",
	"images.added":         "Added {count} images to {path}",

	"url.missing":  "A URL is required",
	"url.recorded": "Recorded {url} on {path}",

	"missing.selectField":  "Select a list field",
	"missing.noListFields": "The note has no list fields",
	"missing.noLinks":      "The field {field} has no links",
	"missing.allExist":     "Every linked note already exists",
	"missing.found":        "Found {count} missing notes",
	"missing.created":      "Created {path}",
	"missing.skipped":      "{path} already exists, skipped",
	"missing.failed":       "Could not create {path}: {error}",
	"missing.finished":     "Finished: {created} created, {failed} failed",

	"relocate.noField":         "No location field with a value",
	"relocate.unresolved":      "Could not resolve {link}",
	"relocate.alreadyInFolder": "The note is already in {folder}",
	"relocate.folderNote":      "Folder notes are not moved",
	"relocate.moveError":       "Could not move note: {error}",

	"templates.noPrompt":          "Template {template} has no prompt",
	"templates.promptTitle":       "The note is titled \"{title}\".",
	"templates.fileAlreadyExists": "{path} already exists",
	"templates.noImages":          "No images to analyse",
	"templates.generating":        "Analysing {count} images",
}
