package git

import "strings"

// Footer marks commits made by elo.
const Footer = "Powered-by: elo"

// Conventional commit types used by elo.
const (
	CommitTypeDocs  = "docs"
	CommitTypeChore = "chore"
)

// FormatCommitMessage builds a Conventional Commit message:
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Powered-by: elo
func FormatCommitMessage(ctype, scope, subject, body string) string {
	var sb strings.Builder
	if ctype == "" {
		ctype = CommitTypeChore
	}
	sb.WriteString(ctype)
	if scope != "" {
		sb.WriteString("(" + scope + ")")
	}
	sb.WriteString(": ")
	sb.WriteString(subject)

	if body = strings.TrimSpace(body); body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(body)
	}
	sb.WriteString("\n\n")
	sb.WriteString(Footer)
	return sb.String()
}
