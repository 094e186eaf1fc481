// HTML rendering of the final document.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

const htmlShell = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// OutputHTML converts the final markdown document to a standalone HTML
// page (output.html). Rendering failures are not fatal to a run; the
// caller skips the supplement and keeps output.md.
func OutputHTML(title string, markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(markdown, &buf); err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf(htmlShell, title, buf.String())), nil
}
