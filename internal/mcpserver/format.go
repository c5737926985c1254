package mcpserver

// ThreadFormatContract describes the on-disk thread file format for external
// editors and LLM clients. Files that follow it round-trip through the parser
// without loss.
const ThreadFormatContract = `# Thread File Format

Each comment thread is one markdown file inside the configured comment folder
of the vault. The tool never reads subdirectories or files whose names begin
with a dot.

## Layout

	---
	url: https://example.com/article
	title: "Article: a subtitle"
	created: 2024-05-01 09:30
	updated: 2024-05-02 18:00
	---

	## Notes

	### 2024-05-01 09:30

	First comment body. Any markdown is allowed here.

	### 2024-05-02 18:00

	Second comment body.

## Frontmatter

- Delimited by ` + "`---`" + ` lines at the very top of the file.
- One ` + "`key: value`" + ` pair per line. Unknown keys are preserved.
- Values containing a colon or quote must be double-quoted.
- Recognized keys: url, title, favicon, preview, created, updated.
- Placeholder values (n/a, none, null, nil, undefined, -) are treated as empty.

## Comments

- Every ` + "`### `" + ` heading after the frontmatter starts a comment.
- The heading text is the comment timestamp, preferably ` + "`2006-01-02 15:04`" + `.
  Other common date formats and free-text dates are also parsed.
- The section body, trimmed, is the comment text. Empty sections are dropped.
- Comments without a parseable date fall back to the file's modification time.

## Caveats

- Comment ids are derived from timestamps. Editing a heading changes the id.
- Files added or removed outside the tool are picked up on the next listing.
`
