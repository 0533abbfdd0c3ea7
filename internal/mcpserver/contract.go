package mcpserver

// CardFormatContract describes the canonical rich-text document format that
// LLM consumers should follow when creating or updating cards.
const CardFormatContract = `# Tavle Card Format Contract

Every card created through the Tavle tools MUST carry its content as a
rich-text JSON document.

## Structure

` + "```" + `json
{
  "type": "doc",
  "content": [
    {
      "type": "paragraph",
      "content": [
        { "type": "text", "text": "Plain prose goes here." }
      ]
    }
  ]
}
` + "```" + `

## Rules

1. **Content is a single JSON object.** The top-level node is ` + "`" + `{"type":"doc"}` + "`" + `
   with a ` + "`" + `content` + "`" + ` array of block nodes.
2. **Text lives in leaf nodes.** Every visible string sits in a node with a
   ` + "`" + `text` + "`" + ` field. Tavle derives search text and word counts from those
   fields, so never encode prose anywhere else.
3. **Titles are separate.** The card title is a plain string passed alongside
   the content, not embedded in the document.
4. **Tags** are lowercase, kebab-case names (e.g. ` + "`" + `project-x` + "`" + `,
   ` + "`" + `meeting-notes` + "`" + `), passed as a comma-separated list.
5. **Block types** you may use: ` + "`" + `paragraph` + "`" + `, ` + "`" + `heading` + "`" + `, ` + "`" + `bulletList` + "`" + `,
   ` + "`" + `orderedList` + "`" + `, ` + "`" + `listItem` + "`" + `, ` + "`" + `blockquote` + "`" + `, ` + "`" + `codeBlock` + "`" + `. Unknown node
   types are stored verbatim but may not render.
6. **Encoding** is UTF-8. Do not double-encode the JSON document as a string
   inside another JSON document.

## Assets & Images

- Upload assets via the ` + "`" + `upload_asset` + "`" + ` tool. It returns a ` + "`" + `markdownImage` + "`" + `
  field ready to embed.
- Assets are stored under category directories (` + "`" + `pdfs/` + "`" + `, ` + "`" + `images/` + "`" + `,
  ` + "`" + `other/` + "`" + `) and addressed by locator, e.g. ` + "`" + `images/1756200000000_photo.png` + "`" + `.
- Reference them by URL path: ` + "`" + `/api/assets/<locator>` + "`" + `.
- Supported formats: png, jpg, jpeg, gif, webp, svg, pdf.

## Example

` + "```" + `json
{
  "type": "doc",
  "content": [
    { "type": "heading", "attrs": { "level": 2 },
      "content": [ { "type": "text", "text": "Standup 2026-08-26" } ] },
    { "type": "paragraph",
      "content": [ { "type": "text", "text": "Attendees: Alice, Bob." } ] },
    { "type": "bulletList", "content": [
      { "type": "listItem", "content": [
        { "type": "paragraph",
          "content": [ { "type": "text", "text": "Review the design doc." } ] }
      ] }
    ] }
  ]
}
` + "```" + `
`
