package component

import (
	"strings"
)

// MenuKindName is the hierarchy name of the built-in menu kind.
const MenuKindName = "menu"

// DefaultMenuLabel is used when a menu is registered without a label.
const DefaultMenuLabel = "Menu label"

// Menu is the built-in admin menu kind. Menus accept one parent, share slugs
// across plugins (so several plugins can add pages to the same menu) and
// normalise their icon after validation.
var Menu Kind = menuKind{}

type menuKind struct{}

func (menuKind) Name() string { return MenuKindName }

func (menuKind) Defaults() map[string]any {
	return map[string]any{
		"label":    DefaultMenuLabel,
		"icon":     "",
		"position": nil,
	}
}

func (menuKind) SupportsMultiParents() bool { return false }

func (menuKind) SlugPolicy() SlugPolicy { return SlugShared() }

// Validated normalises the label and icon. Bare dashicon names get the
// "dashicons-" prefix; URLs, data URIs and the special values "none" and
// "div" are kept as given.
func (menuKind) Validated(c *Component) error {
	if label, ok := c.Get("label").(string); !ok || strings.TrimSpace(label) == "" {
		c.Set("label", DefaultMenuLabel)
	} else {
		c.Set("label", strings.TrimSpace(label))
	}

	icon, _ := c.Get("icon").(string)
	c.Set("icon", normalizeMenuIcon(icon))
	return nil
}

func normalizeMenuIcon(icon string) string {
	icon = strings.TrimSpace(icon)
	switch {
	case icon == "", icon == "none", icon == "div":
		return icon
	case strings.HasPrefix(icon, "dashicons-"),
		strings.HasPrefix(icon, "data:"),
		strings.Contains(icon, "://"),
		strings.HasPrefix(icon, "/"):
		return icon
	}
	return "dashicons-" + icon
}

// Menu placement modes
const (
	MenuModeMenu    = "menu"
	MenuModeSubmenu = "submenu"
)

// MenuEntry describes where one child of a menu is placed in the admin menu.
type MenuEntry struct {
	Mode       string
	Slug       string
	ParentSlug string
	Label      string
	Icon       string
	Position   *float64
}

// builtinAdminPages maps menu slugs that refer to existing admin menus to
// their page file.
var builtinAdminPages = map[string]string{
	"dashboard":  "index.php",
	"posts":      "edit.php",
	"post":       "edit.php",
	"media":      "upload.php",
	"attachment": "upload.php",
	"links":      "link-manager.php",
	"link":       "link-manager.php",
	"pages":      "edit.php?post_type=page",
	"comments":   "edit-comments.php",
	"theme":      "themes.php",
	"plugins":    "plugins.php",
	"users":      "users.php",
	"management": "tools.php",
	"options":    "options-general.php",
}

// BuiltinAdminPage returns the page a menu slug resolves to when it names an
// existing admin menu.
func BuiltinAdminPage(slug string) (string, bool) {
	page, ok := builtinAdminPages[slug]
	return page, ok
}

// MenuEntries computes the placement of a menu's children. A menu with an
// empty slug only produces parentless submenu entries. A menu whose slug
// names an existing admin menu (see BuiltinAdminPage, extended by existing)
// puts every child below that menu. Otherwise the first child becomes the
// top-level page carrying the menu label, icon and position, and the
// remaining children become its submenu pages.
func MenuEntries(menu *Component, existing func(slug string) (string, bool)) []MenuEntry {
	children := menu.Children("")
	if len(children) == 0 {
		return nil
	}

	entries := make([]MenuEntry, 0, len(children))
	if menu.Slug() == "" {
		for _, child := range children {
			entries = append(entries, MenuEntry{Mode: MenuModeSubmenu, Slug: child.Slug()})
		}
		return entries
	}

	parent, found := BuiltinAdminPage(menu.Slug())
	if !found && existing != nil {
		parent, found = existing(menu.Slug())
	}

	start := 0
	if !found {
		label, _ := menu.Get("label").(string)
		icon, _ := menu.Get("icon").(string)
		entry := MenuEntry{
			Mode:  MenuModeMenu,
			Slug:  children[0].Slug(),
			Label: label,
			Icon:  icon,
		}
		if pos, ok := menu.Position(); ok {
			entry.Position = &pos
		}
		entries = append(entries, entry)
		parent = children[0].Slug()
		start = 1
	}

	for _, child := range children[start:] {
		entries = append(entries, MenuEntry{
			Mode:       MenuModeSubmenu,
			Slug:       child.Slug(),
			ParentSlug: parent,
		})
	}
	return entries
}
