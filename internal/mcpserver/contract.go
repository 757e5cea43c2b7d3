package mcpserver

// MemoryFormatContract describes the on-disk memory format for MCP
// clients that want to read or edit the files directly.
const MemoryFormatContract = `# Conduit Memory Format

Every memory is one Markdown file named ` + "`<id>.md`" + ` inside the memories
directory. The file has two parts: a YAML frontmatter header and a body.

## Structure

` + "```" + `markdown
---
id: 2f1c9a7e-7b3d-4f2a-9c1e-8d4b6a0e5f13
title: Short display title
tags:
    - tag-one
    - tag-two
created_at: "2025-03-14T09:26:53Z"
updated_at: "2025-03-14T11:26:53Z"
---

Body text in standard Markdown, stored verbatim.
` + "```" + `

## Rules

1. The ` + "`---`" + ` fences delimit the header; the body starts after the
   blank line that follows the closing fence.
2. ` + "`id`" + `, ` + "`title`" + `, ` + "`created_at`" + `, and ` + "`updated_at`" + ` are required.
   ` + "`tags`" + ` may be omitted and defaults to an empty list.
3. Timestamps are RFC 3339 with a timezone offset.
4. ` + "`id`" + ` matches the filename stem and must never be edited.
5. Files that fail to parse are skipped by listing and search until
   they are fixed; nothing else breaks.
`
