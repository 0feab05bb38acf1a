package fieldtype

import (
	"encoding/json"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tidwall/gjson"

	"github.com/felixarntz/wpdlib/errors"
)

// AttachmentPostType is the post type media values must reference
const AttachmentPostType = "attachment"

// Media projection modes for Parse
const (
	MediaModeURL      = "url"
	MediaModeImage    = "image"
	MediaModeField    = "field"
	MediaModeTemplate = "template"
)

// Attachment is an uploaded file as seen by media fields.
type Attachment struct {
	ID       int             `json:"id" yaml:"id" validate:"gt=0"`
	PostType string          `json:"post_type" yaml:"post_type"`
	File     string          `json:"file" yaml:"file" validate:"required"`
	URL      string          `json:"url" yaml:"url" validate:"omitempty,url"`
	MimeType string          `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	Title    string          `json:"title,omitempty" yaml:"title,omitempty"`
	Alt      string          `json:"alt,omitempty" yaml:"alt,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty" yaml:"-"`
}

// Filename returns the base name of the attached file
func (a Attachment) Filename() string {
	if a.File == "" {
		return ""
	}
	return filepath.Base(a.File)
}

// Extension returns the lower-cased file extension without dot
func (a Attachment) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(a.File), "."))
}

// Mime returns the stored mime type, or the one registered for the file
// extension.
func (a Attachment) Mime() string {
	if a.MimeType != "" {
		return a.MimeType
	}
	return mimeByExtension(a.Extension())
}

// MediaStore looks up attachments by post ID.
type MediaStore interface {
	Attachment(id int) (Attachment, bool)
}

// MemoryMediaStore is a MediaStore backed by a map. It is safe for
// concurrent use.
type MemoryMediaStore struct {
	mu    sync.RWMutex
	items map[int]Attachment
}

var _ MediaStore = (*MemoryMediaStore)(nil)

// NewMemoryMediaStore creates a store holding attachments
func NewMemoryMediaStore(attachments ...Attachment) *MemoryMediaStore {
	s := &MemoryMediaStore{items: make(map[int]Attachment, len(attachments))}
	for _, a := range attachments {
		s.Add(a)
	}
	return s
}

// Add stores a, defaulting its post type to attachment
func (s *MemoryMediaStore) Add(a Attachment) {
	if a.PostType == "" {
		a.PostType = AttachmentPostType
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[a.ID] = a
}

// Attachment implements MediaStore
func (s *MemoryMediaStore) Attachment(id int) (Attachment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.items[id]
	return a, ok
}

// extensionTypes maps file extensions to the general type buckets a
// mime_types argument may name.
var extensionTypes = map[string][]string{
	"image":       {"jpg", "jpeg", "jpe", "gif", "png", "bmp", "tif", "tiff", "ico", "webp", "svg", "avif", "heic"},
	"audio":       {"aac", "ac3", "aif", "aiff", "flac", "m3a", "m4a", "m4b", "mka", "mp1", "mp2", "mp3", "ogg", "oga", "ram", "wav", "wma"},
	"video":       {"3g2", "3gp", "3gpp", "asf", "avi", "divx", "dv", "flv", "m4v", "mkv", "mov", "mp4", "mpeg", "mpg", "mpv", "ogm", "ogv", "qt", "rm", "vob", "wmv", "webm"},
	"document":    {"doc", "docx", "docm", "dotm", "odt", "pages", "pdf", "xps", "oxps", "rtf", "wp", "wpd", "psd", "xcf"},
	"spreadsheet": {"numbers", "ods", "xls", "xlsx", "xlsm", "xlsb"},
	"interactive": {"swf", "key", "ppt", "pptx", "pptm", "pps", "ppsx", "ppsm", "sldx", "sldm", "odp"},
	"text":        {"asc", "csv", "tsv", "txt"},
	"archive":     {"bz2", "cab", "dmg", "gz", "rar", "sea", "sit", "sqx", "tar", "tgz", "zip", "7z"},
	"code":        {"css", "htm", "html", "php", "js"},
}

func extensionType(ext string) string {
	for typ, exts := range extensionTypes {
		if slices.Contains(exts, ext) {
			return typ
		}
	}
	return ""
}

// Media stores the ID of an attachment whose file type is allowed by the
// mime_types argument: "all", or a list of extensions, type buckets such as
// "image" or "document", full mime types and mime wildcards like "image/*".
type Media struct {
	Base
}

func newMedia(m *Manager, typ string, args Args) *Media {
	if !args.IsSet("mime_types") {
		args["mime_types"] = "all"
	}
	return &Media{Base: newBase(m, typ, args)}
}

// MimeTypes returns the allow-list
func (md *Media) MimeTypes() []string {
	return md.args.StringSlice("mime_types", []string{"all"})
}

func (md *Media) attachment(id int) (Attachment, bool) {
	if md.m.media == nil || id < 1 {
		return Attachment{}, false
	}
	return md.m.media.Attachment(id)
}

// Display implements Field
func (md *Media) Display(value any) string {
	id := absInt(int(toIntValue(value)))
	attrs := md.attrs("placeholder")
	attrs["value"] = strconv.Itoa(id)

	title := ""
	att, found := md.attachment(id)
	if found {
		title = att.Filename()
	}

	base := md.id()
	out := `<input type="hidden"` + MakeHTMLAttributes(attrs, false) + ` />`
	out += `<input type="text"` + MakeHTMLAttributes(map[string]any{
		"id":    base + "-media-title",
		"class": "wpdlib-media-title",
		"value": title,
	}, false) + ` />`
	out += `<a` + MakeHTMLAttributes(map[string]any{
		"id":    base + "-media-button",
		"class": "wpdlib-media-button button",
		"href":  "#",
	}, false) + `>Choose / Upload a File</a>`

	if !found {
		return out
	}
	if matchesFileType(att, []string{"image"}) {
		return out + `<img` + MakeHTMLAttributes(map[string]any{
			"id":    base + "-media-image",
			"class": "wpdlib-media-image",
			"src":   att.URL,
		}, false) + ` />`
	}
	return out + `<a` + MakeHTMLAttributes(map[string]any{
		"id":     base + "-media-link",
		"class":  "wpdlib-media-link",
		"href":   att.URL,
		"target": "_blank",
	}, false) + `>Open File</a>`
}

// Validate implements Field
func (md *Media) Validate(value any) (any, error) {
	if value == nil {
		return md.valid(0)
	}
	id := absInt(int(toIntValue(value)))

	att, ok := md.attachment(id)
	if !ok || att.PostType != AttachmentPostType {
		return md.invalid(errors.Newf(errors.CodeInvalidPostType, "",
			"The post with ID %d is not a valid media file.", id).WithData(id))
	}

	allowed := md.MimeTypes()
	if !matchesFileType(att, allowed) {
		return md.invalid(errors.Newf(errors.CodeInvalidMimeType, "",
			"The media item with ID %d is neither of the valid formats (%s).", id, strings.Join(allowed, ", ")).WithData(id))
	}
	return md.valid(id)
}

// matchesFileType checks an attachment against an allow-list
func matchesFileType(att Attachment, allowed []string) bool {
	ext := att.Extension()
	if ext == "" {
		return false
	}
	if len(allowed) == 0 || slices.Contains(allowed, "all") {
		return true
	}
	if slices.Contains(allowed, ext) {
		return true
	}
	if typ := extensionType(ext); typ != "" && slices.Contains(allowed, typ) {
		return true
	}

	detected := att.Mime()
	if detected == "" {
		return false
	}
	known := mimetype.Lookup(detected)
	for _, want := range allowed {
		if !strings.Contains(want, "/") {
			continue
		}
		if prefix, ok := strings.CutSuffix(want, "/*"); ok {
			if strings.HasPrefix(detected, prefix+"/") {
				return true
			}
			continue
		}
		if strings.EqualFold(want, detected) {
			return true
		}
		if known != nil && known.Is(want) {
			return true
		}
	}
	return false
}

// IsEmpty implements Field
func (md *Media) IsEmpty(value any) bool {
	return absInt(int(toIntValue(value))) < 1
}

// Parse implements Field. Enabled formatting projects the ID according to
// the "mode" option: the file URL (default), an image tag, a value from the
// attachment ("field" option, a gjson path into the metadata), or a
// template with %url%, %title%, %filename%, %mime%, %id% and %alt% tokens.
func (md *Media) Parse(value any, f Formatting) any {
	id := absInt(int(toIntValue(value)))
	if !f.Enabled {
		return id
	}

	att, ok := md.attachment(id)
	if !ok {
		return ""
	}
	switch f.Options.String("mode", MediaModeURL) {
	case MediaModeImage:
		return "<img" + MakeHTMLAttributes(map[string]any{
			"src":   att.URL,
			"alt":   att.Alt,
			"class": f.Options.String("class", ""),
		}, false) + " />"
	case MediaModeField:
		return attachmentField(att, f.Options.String("field", "title"))
	case MediaModeTemplate:
		return strings.NewReplacer(
			"%url%", att.URL,
			"%title%", att.Title,
			"%filename%", att.Filename(),
			"%mime%", att.Mime(),
			"%id%", strconv.Itoa(att.ID),
			"%alt%", att.Alt,
		).Replace(f.Options.String("template", "%url%"))
	}
	return md.m.FormatString(att.URL, KindURL, ModeOutput, nil)
}

func attachmentField(att Attachment, path string) string {
	switch path {
	case "id":
		return strconv.Itoa(att.ID)
	case "url":
		return att.URL
	case "title":
		return att.Title
	case "alt":
		return att.Alt
	case "file", "filename":
		return att.Filename()
	case "mime", "mime_type":
		return att.Mime()
	}
	if len(att.Metadata) == 0 {
		return ""
	}
	return gjson.GetBytes(att.Metadata, path).String()
}

// Assets implements Field
func (md *Media) Assets() Assets {
	return Assets{
		Dependencies: []string{"media-editor"},
		ScriptVars: map[string]any{
			"i18n_open_file": "Open file",
		},
	}
}

func toIntValue(v any) int64 {
	f, _ := toFloat(v)
	return int64(f)
}
