// Package elo is the Composition Root for the elo note enrichment engine.
//
// It connects the domain packages (frontmatter merging, template extraction,
// the enrichment workflows) with the infrastructure adapters (vault on disk,
// language models, web fetching, image search, console) using the Hexagonal
// Architecture pattern.
//
// Philosophy:
//
// A note's metadata block is the contract between its author and every tool
// that touches it. elo merges template metadata, generator suggestions and
// the note's own values under one rule set: meaningful values are never
// silently replaced, control keys never leak into persisted notes, and link
// fields stay links.
//
// Features:
//
//   - **Template application**: pick a template, fetch optional URL context, ask a model, merge, relocate.
//   - **Enhancement**: per-note prompts and commands over the existing content.
//   - **Images**: search and record images for a note, or derive a note from images.
//   - **Bulk generation**: create the notes a list of links points to.
//   - **Pluggable ports**: every external service is an interface in `pkg/core`.
//
// Usage:
//
//	cfg, _, err := elo.LoadConfig(elo.LoadOptions{Vault: "./vault"})
//	app, err := elo.New(ctx, elo.WithConfig(cfg), elo.WithLogger(logger))
//
//	res, err := app.Service.ApplyTemplate(ctx, "Inbox/Ada.md", enrich.ApplyOptions{})
package elo
