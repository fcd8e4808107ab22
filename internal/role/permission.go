package role

// Permission describes one entry of the catalogue offered to clients. Role
// writes may still carry identifiers outside the catalogue.
type Permission struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Group       string `json:"group"`
}

var catalogue = []Permission{
	{ID: "read", Label: "Read", Description: "Can read content", Group: "content"},
	{ID: "write", Label: "Write", Description: "Can create and edit content", Group: "content"},
	{ID: "delete", Label: "Delete", Description: "Can delete content", Group: "content"},
	{ID: "view_dashboard", Label: "View Dashboard", Description: "Can view the dashboard", Group: "dashboard"},
	{ID: "edit_dashboard", Label: "Edit Dashboard", Description: "Can change the dashboard", Group: "dashboard"},
	{ID: "view_users", Label: "View Users", Description: "Can view user details", Group: "users"},
	{ID: "edit_users", Label: "Edit Users", Description: "Can modify user details", Group: "users"},
	{ID: "delete_users", Label: "Delete Users", Description: "Can remove users from the system", Group: "users"},
	{ID: "edit_settings", Label: "Edit Settings", Description: "Can modify system settings", Group: "settings"},
}

// Catalogue returns a copy of the known permissions.
func Catalogue() []Permission {
	out := make([]Permission, len(catalogue))
	copy(out, catalogue)
	return out
}

// IsKnownPermission reports whether id is in the catalogue.
func IsKnownPermission(id string) bool {
	for _, p := range catalogue {
		if p.ID == id {
			return true
		}
	}
	return false
}
