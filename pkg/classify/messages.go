package classify

// Prompt texts.
const (
	MsgSelectDependencies = "Please select the dependencies you want to manage (if not, press Enter to skip this round)"
	MsgSelectCatalog      = "Please select or customize catalog name"
	MsgNewCatalogLabel    = "create a new catalog name?"
	MsgNewCatalogInput    = "Please enter custom catalog name:"
	MsgPlaceInCatalog     = "Do you place the selected dependencies in the `%s` category?"
	MsgContinue           = "Do you continue to manage the remaining dependencies?"
	MsgConfirmWrite       = "Are you sure write the latest management configuration to the %s file?"

	ErrMsgEmptyName     = "catalog name cannot be empty."
	ErrMsgExistingName  = "this catalog name already exists, please select it from the list."
	ErrMsgReservedColon = "catalog name cannot contain ':'."
)

// NewCatalogValue is the option value standing for "type a new name".
const NewCatalogValue = "__new__"
