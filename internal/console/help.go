package console

// commandHelp contains help text for each command.
var commandHelp = map[string]string{
	"list": `Syntax: list
Description: Shows the current page of users.`,

	"search": `Syntax: search [query]
Description: Filters users whose name, email, role or department contains the query, ignoring case. An empty query clears the search.
Example: search "data group"`,

	"status": `Syntax: status <all|active|inactive>
Description: Filters users by status.`,

	"role": `Syntax: role [name]
Description: Shows only users whose primary role is exactly the given name. No name clears the filter.
Example: role admin`,

	"dept": `Syntax: dept [name]
Description: Shows only users whose department is exactly the given name. No name clears the filter.
Example: dept "Earth Group"`,

	"clear-filters": `Syntax: clear-filters
Description: Removes the search and every filter.`,

	"next": `Syntax: next
Description: Moves to the next page, staying on the last one.`,

	"prev": `Syntax: prev
Description: Moves to the previous page, staying on the first one.`,

	"page": `Syntax: page <n>
Description: Jumps to page n. A page past the end shows page 1.`,

	"select": `Syntax: select <id>...
Description: Toggles the selection of the given users.
Example: select 3 7 12`,

	"select-page": `Syntax: select-page
Description: Selects every user on the current page.`,

	"unselect-page": `Syntax: unselect-page
Description: Deselects every user on the current page.`,

	"clear-selection": `Syntax: clear-selection
Description: Deselects every user.`,

	"selected": `Syntax: selected
Description: Lists the ids of the selected users.`,

	"show": `Syntax: show <id>
Description: Shows the details of one user.`,

	"edit": `Syntax: edit <id>
Description: Opens a user for editing. Change fields with 'set', then 'save' or 'cancel'.`,

	"set": `Syntax: set <name|email|status> <value>
Description: Changes a field of the user being edited.
Example: set name "Ada Lovelace"`,

	"save": `Syntax: save
Description: Sends the edited user to the API and closes the editor.`,

	"cancel": `Syntax: cancel
Description: Discards the edit.`,

	"toggle": `Syntax: toggle <id>
Description: Switches a user between active and inactive.`,

	"delete": `Syntax: delete <id>
Description: Deletes a user after confirmation.`,

	"bulk-delete": `Syntax: bulk-delete
Description: Deletes every selected user after confirmation. Users that fail to delete stay selected.`,

	"roles": `Syntax: roles
Description: Lists the primary roles present in the loaded users.`,

	"depts": `Syntax: depts
Description: Lists the departments present in the loaded users.`,

	"reload": `Syntax: reload
Description: Fetches the users again.`,

	"help": `Syntax: help [command]
Description: Shows the list of commands, or help for one command.`,

	"exit": `Syntax: exit
Description: Leaves the console. 'quit' does the same.`,
}
