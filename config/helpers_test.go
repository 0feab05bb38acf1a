package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
version: 1.2.0
scope: my-plugin
locale:
  tag: de-DE
  timezone: UTC
  start_of_week: 1
kinds:
  page:
    defaults:
      capability: manage_options
  section:
    slugs: within
    within: page
  field:
    slugs: within
    within: section
hierarchy:
  menu:
    page:
      section:
        field:
components:
  - kind: menu
    slug: my-menu
    props:
      label: My Menu
    children:
      - kind: page
        slug: settings
        props:
          title: Settings
        children:
          - kind: section
            slug: general
            children:
              - kind: field
                slug: title
                field:
                  type: text
                  placeholder: Your title
              - kind: field
                slug: size
                field:
                  type: select
                  options:
                    s: Small
                    m: Medium
              - kind: field
                slug: related
                field:
                  type: multiselect
                  options:
                    posts: page
sources:
  posts:
    page:
      10: About
      11: Contact
media:
  - id: 5
    file: 2025/03/photo.jpg
    url: https://example.com/photo.jpg
`

const sampleJSON = `{
  "scope": "other-plugin",
  "hierarchy": {"menu": {"page": {"section": {"field": null}}}},
  "components": [
    {
      "kind": "menu",
      "slug": "my-menu",
      "children": [
        {
          "kind": "page",
          "slug": "tools",
          "children": [
            {
              "kind": "section",
              "slug": "general",
              "children": [
                {"kind": "field", "slug": "count", "field": {"type": "number", "step": 1, "min": 1}}
              ]
            }
          ]
        }
      ]
    }
  ]
}`

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func decodeSample(t *testing.T) *Manifest {
	t.Helper()
	m, err := Decode([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)
	return m
}
