package contenttypes

import (
	"strings"

	"golang.org/x/text/message"
)

// LabelTemplate formats one admin label from an already translated label field.
type LabelTemplate func(tr Translator, field string) string

// Label templates. Each takes the translated label field as an argument, never
// as part of the format.

// NameLabel is the general name of the type.
func NameLabel(tr Translator, plural string) string { return tr.Sprintf("%s", plural) }

// SingularNameLabel is the name of a single item.
func SingularNameLabel(tr Translator, s string) string { return tr.Sprintf("%s", s) }

// MenuNameLabel is the admin menu and admin bar entry.
func MenuNameLabel(tr Translator, plural string) string { return tr.Sprintf("%s", plural) }

// AllItemsLabel is the submenu entry listing every item.
func AllItemsLabel(tr Translator, plural string) string { return tr.Sprintf("All %s", plural) }

// AddNewItemLabel is the title of the create screen.
func AddNewItemLabel(tr Translator, item string) string { return tr.Sprintf("Add New %s", item) }

// AddNewLabel is the create button.
func AddNewLabel(tr Translator, item string) string { return tr.Sprintf("Add %s", item) }

// NewItemLabel is the new item entry of the admin bar.
func NewItemLabel(tr Translator, item string) string { return tr.Sprintf("New %s", item) }

// EditItemLabel is the title of the edit screen.
func EditItemLabel(tr Translator, item string) string { return tr.Sprintf("Modify %s", item) }

// UpdateItemLabel is the save button of the edit screen.
func UpdateItemLabel(tr Translator, item string) string { return tr.Sprintf("Update %s", item) }

// ViewItemLabel links to the front-end view.
func ViewItemLabel(tr Translator, items string) string { return tr.Sprintf("View %s", items) }

// SearchItemsLabel is the search button of the listing screen.
func SearchItemsLabel(tr Translator, items string) string { return tr.Sprintf("Search %s", items) }

// translate looks a free-form label up in the catalog, falling back to itself.
// The fallback is escaped so the label is never interpreted as a format.
func translate(tr Translator, s string) string {
	if s == "" {
		return s
	}
	return tr.Sprintf(message.Key(s, strings.ReplaceAll(s, "%", "%%")))
}

// DeriveLabels builds the admin label set of def.
func DeriveLabels(tr Translator, def Definition) Labels {
	singular := translate(tr, def.SingularLabel)
	plural := translate(tr, def.PluralLabel)
	item := translate(tr, def.ItemLabel)
	items := translate(tr, def.ItemsLabel)

	return Labels{
		Name:            NameLabel(tr, plural),
		SingularName:    SingularNameLabel(tr, singular),
		MenuName:        MenuNameLabel(tr, plural),
		NameAdminBar:    MenuNameLabel(tr, plural),
		ParentItemColon: tr.Sprintf("Parent element:"),
		AllItems:        AllItemsLabel(tr, plural),
		AddNewItem:      AddNewItemLabel(tr, item),
		AddNew:          AddNewLabel(tr, item),
		NewItem:         NewItemLabel(tr, item),
		EditItem:        EditItemLabel(tr, item),
		UpdateItem:      UpdateItemLabel(tr, item),
		ViewItem:        ViewItemLabel(tr, items),
		SearchItems:     SearchItemsLabel(tr, items),
		NotFound:        tr.Sprintf("Not found"),
		NotFoundInTrash: tr.Sprintf("Not found in Trash"),
	}
}
