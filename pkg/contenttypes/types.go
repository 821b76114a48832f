package contenttypes

// Feature is an editing capability a content type supports.
type Feature string

const (
	FeatureTitle     Feature = "title"
	FeatureEditor    Feature = "editor"
	FeatureThumbnail Feature = "thumbnail"
	FeatureExcerpt   Feature = "excerpt"
)

// Definition describes one content type before it is registered.
type Definition struct {
	Key             string    `json:"key"`
	SingularLabel   string    `json:"singular_label"`
	PluralLabel     string    `json:"plural_label"`
	ItemLabel       string    `json:"item_label"`
	ItemsLabel      string    `json:"items_label"`
	Supports        []Feature `json:"supports"`
	ArchivePageSize int       `json:"archive_page_size"`
	Icon            string    `json:"icon"`
}

// Labels is the set of admin strings derived from a Definition.
type Labels struct {
	Name            string `json:"name"`
	SingularName    string `json:"singular_name"`
	MenuName        string `json:"menu_name"`
	NameAdminBar    string `json:"name_admin_bar"`
	ParentItemColon string `json:"parent_item_colon"`
	AllItems        string `json:"all_items"`
	AddNewItem      string `json:"add_new_item"`
	AddNew          string `json:"add_new"`
	NewItem         string `json:"new_item"`
	EditItem        string `json:"edit_item"`
	UpdateItem      string `json:"update_item"`
	ViewItem        string `json:"view_item"`
	SearchItems     string `json:"search_items"`
	NotFound        string `json:"not_found"`
	NotFoundInTrash string `json:"not_found_in_trash"`
}

// Rewrite is the routing configuration of a content type.
type Rewrite struct {
	Slug      string `json:"slug"`
	WithFront bool   `json:"with_front"`
	Pages     bool   `json:"pages"`
	Feeds     bool   `json:"feeds"`
}

// CapabilityTypePost maps a content type onto the standard document permissions.
const CapabilityTypePost = "post"

// DefaultMenuPosition places custom types right below the built-in posts menu.
const DefaultMenuPosition = 5

// RegistrationConfig is the argument set handed to Host.RegisterContentType.
type RegistrationConfig struct {
	Label             string    `json:"label"`
	Description       string    `json:"description"`
	Labels            Labels    `json:"labels"`
	Supports          []Feature `json:"supports"`
	Hierarchical      bool      `json:"hierarchical"`
	Public            bool      `json:"public"`
	ShowUI            bool      `json:"show_ui"`
	ShowInMenu        bool      `json:"show_in_menu"`
	MenuPosition      int       `json:"menu_position"`
	MenuIcon          string    `json:"menu_icon,omitempty"`
	ShowInAdminBar    bool      `json:"show_in_admin_bar"`
	ShowInNavMenus    bool      `json:"show_in_nav_menus"`
	CanExport         bool      `json:"can_export"`
	HasArchive        bool      `json:"has_archive"`
	ExcludeFromSearch bool      `json:"exclude_from_search"`
	PubliclyQueryable bool      `json:"publicly_queryable"`
	Rewrite           Rewrite   `json:"rewrite"`
	CapabilityType    string    `json:"capability_type"`
}

// HasMenuIcon reports whether an icon was passed to the host.
func (c RegistrationConfig) HasMenuIcon() bool {
	return c.MenuIcon != ""
}
