package cli

import (
	"strconv"
	"strings"
)

// Command is one entry of the interactive menu.
type Command int

const (
	CommandAdd Command = iota + 1
	CommandListAll
	CommandUpdatePrice
	CommandDelete
	CommandSearchAuthor
	CommandExport
	CommandImport
	CommandBackup
	CommandExit
)

// Commands lists the menu in display order.
var Commands = []Command{
	CommandAdd,
	CommandListAll,
	CommandUpdatePrice,
	CommandDelete,
	CommandSearchAuthor,
	CommandExport,
	CommandImport,
	CommandBackup,
	CommandExit,
}

var commandLabels = map[Command]string{
	CommandAdd:          "Add a new book",
	CommandListAll:      "List all books",
	CommandUpdatePrice:  "Update a book's price",
	CommandDelete:       "Remove a book",
	CommandSearchAuthor: "Search books by author",
	CommandExport:       "Export books to CSV",
	CommandImport:       "Import books from CSV",
	CommandBackup:       "Back up the database",
	CommandExit:         "Exit",
}

// Key is the text the user types to select the command.
func (c Command) Key() string {
	return strconv.Itoa(int(c))
}

func (c Command) String() string {
	if label, ok := commandLabels[c]; ok {
		return label
	}
	return "Command(" + strconv.Itoa(int(c)) + ")"
}

// ParseCommand maps a menu key to its command.
func ParseCommand(key string) (Command, bool) {
	key = strings.TrimSpace(key)
	for _, c := range Commands {
		if c.Key() == key {
			return c, true
		}
	}
	return 0, false
}
