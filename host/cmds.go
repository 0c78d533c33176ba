// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/prefixtree/v2"
)

// A command describes one monitor command and the handler that runs it.
type command struct {
	group       string // subtree name, empty at the root
	name        string
	brief       string
	description string
	usage       string
	fn          func(h *Host, c cmd.Selection) error
}

func (c *command) path() string {
	if c.group == "" {
		return c.name
	}
	return c.group + " " + c.name
}

// A group is a subtree of related commands.
type group struct {
	name  string
	brief string
	tree  *cmd.Tree
}

var (
	cmds       *cmd.Tree
	commands   []*command
	groups     []*group
	groupsTree = prefixtree.New[*group]()
)

func addGroup(root *cmd.Tree, name, brief string) {
	g := &group{
		name:  name,
		brief: brief,
		tree:  root.AddSubtree(cmd.TreeDescriptor{Name: name, Brief: brief}),
	}
	groups = append(groups, g)
	groupsTree.Add(name, g)
}

func addCommand(root *cmd.Tree, c command) {
	t := root
	if c.group != "" {
		g, _ := groupsTree.FindValue(c.group)
		t = g.tree
	}
	cc := &c
	commands = append(commands, cc)
	t.AddCommand(cmd.CommandDescriptor{
		Name:        c.name,
		Brief:       c.brief,
		Description: c.description,
		Usage:       c.usage,
		Data:        cc,
	})
}

// commandsInGroup returns the commands of a group, or the root commands
// when name is empty.
func commandsInGroup(name string) []*command {
	var list []*command
	for _, c := range commands {
		if c.group == name {
			list = append(list, c)
		}
	}
	return list
}

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "go68k"})

	addGroup(root, "breakpoint", "Breakpoint commands")
	addGroup(root, "databreakpoint", "Data breakpoint commands")
	addGroup(root, "memory", "Memory commands")

	addCommand(root, command{
		name:        "help",
		description: "Display help for a command.",
		usage:       "help [<command>]",
		fn:          (*Host).cmdHelp,
	})
	addCommand(root, command{
		name:  "backtrace",
		brief: "Display recently executed addresses",
		description: "Display the addresses of the most recently executed" +
			" instructions, oldest first.",
		usage: "backtrace",
		fn:    (*Host).cmdBacktrace,
	})

	// Breakpoint commands
	addCommand(root, command{
		group:       "breakpoint",
		name:        "list",
		brief:       "List breakpoints",
		description: "List all current breakpoints.",
		usage:       "breakpoint list",
		fn:          (*Host).cmdBreakpointList,
	})
	addCommand(root, command{
		group: "breakpoint",
		name:  "add",
		brief: "Add a breakpoint",
		description: "Add a breakpoint at the specified address." +
			" The breakpoint starts enabled.",
		usage: "breakpoint add <address>",
		fn:    (*Host).cmdBreakpointAdd,
	})
	addCommand(root, command{
		group:       "breakpoint",
		name:        "remove",
		brief:       "Remove a breakpoint",
		description: "Remove a breakpoint at the specified address.",
		usage:       "breakpoint remove <address>",
		fn:          (*Host).cmdBreakpointRemove,
	})
	addCommand(root, command{
		group:       "breakpoint",
		name:        "enable",
		brief:       "Enable a breakpoint",
		description: "Enable a previously added breakpoint.",
		usage:       "breakpoint enable <address>",
		fn:          (*Host).cmdBreakpointEnable,
	})
	addCommand(root, command{
		group: "breakpoint",
		name:  "disable",
		brief: "Disable a breakpoint",
		description: "Disable a previously added breakpoint. This" +
			" prevents the breakpoint from being hit when running the" +
			" CPU.",
		usage: "breakpoint disable <address>",
		fn:    (*Host).cmdBreakpointDisable,
	})

	// Data breakpoint commands
	addCommand(root, command{
		group:       "databreakpoint",
		name:        "list",
		brief:       "List data breakpoints",
		description: "List all current data breakpoints.",
		usage:       "databreakpoint list",
		fn:          (*Host).cmdDataBreakpointList,
	})
	addCommand(root, command{
		group: "databreakpoint",
		name:  "add",
		brief: "Add a data breakpoint",
		description: "Add a new data breakpoint at the specified" +
			" memory address. When the CPU stores data covering this" +
			" address, the breakpoint will stop the CPU. Optionally, a byte" +
			" value may be specified, and the CPU will stop only" +
			" when this value is stored. The data breakpoint starts" +
			" enabled.",
		usage: "databreakpoint add <address> [<value>]",
		fn:    (*Host).cmdDataBreakpointAdd,
	})
	addCommand(root, command{
		group: "databreakpoint",
		name:  "remove",
		brief: "Remove a data breakpoint",
		description: "Remove a previously added data breakpoint at" +
			" the specified memory address.",
		usage: "databreakpoint remove <address>",
		fn:    (*Host).cmdDataBreakpointRemove,
	})
	addCommand(root, command{
		group:       "databreakpoint",
		name:        "enable",
		brief:       "Enable a data breakpoint",
		description: "Enable a previously added data breakpoint.",
		usage:       "databreakpoint enable <address>",
		fn:          (*Host).cmdDataBreakpointEnable,
	})
	addCommand(root, command{
		group:       "databreakpoint",
		name:        "disable",
		brief:       "Disable a data breakpoint",
		description: "Disable a previously added data breakpoint.",
		usage:       "databreakpoint disable <address>",
		fn:          (*Host).cmdDataBreakpointDisable,
	})

	addCommand(root, command{
		name:  "execute",
		brief: "Execute a go68k command file",
		description: "Load a file of monitor commands from disk and execute" +
			" the commands it contains.",
		usage: "execute <filename>",
		fn:    (*Host).cmdExecute,
	})
	addCommand(root, command{
		name:  "irq",
		brief: "Request an autovectored interrupt",
		description: "Request the autovectored interrupt for a level" +
			" between 1 and 7, the way a peripheral would. The CPU takes" +
			" the request at its next instruction boundary.",
		usage: "irq <level>",
		fn:    (*Host).cmdIRQ,
	})
	addCommand(root, command{
		name:  "load",
		brief: "Load a binary file",
		description: "Load the contents of a binary file into the emulated" +
			" system's memory at the specified address.",
		usage: "load <filename> <address>",
		fn:    (*Host).cmdLoad,
	})

	// Memory commands
	addCommand(root, command{
		group: "memory",
		name:  "rom",
		brief: "Map a ROM image",
		description: "Map the contents of a binary file into the emulated" +
			" system's memory at the specified address. The image is" +
			" write-protected and survives a reset of the address" +
			" space. RAM pages overlapping the image are discarded.",
		usage: "memory rom <filename> <address>",
		fn:    (*Host).cmdMemoryROM,
	})

	addCommand(root, command{
		group: "memory",
		name:  "dump",
		brief: "Dump memory at address",
		description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option. If no address is specified, the" +
			" memory dump continues from where the last dump left off.",
		usage: "memory dump [<address>] [<bytes>]",
		fn:    (*Host).cmdMemoryDump,
	})
	addCommand(root, command{
		group: "memory",
		name:  "set",
		brief: "Set memory at address",
		description: "Set the contents of memory starting from the specified" +
			" address. The values to assign should be a series of" +
			" space-separated byte values.",
		usage: "memory set <address> <byte> [<byte> ...]",
		fn:    (*Host).cmdMemorySet,
	})
	addCommand(root, command{
		group: "memory",
		name:  "protect",
		brief: "Write-protect memory",
		description: "Turn write protection on or off for every page" +
			" overlapping the specified range. Stores by the CPU to a" +
			" protected page raise a bus error.",
		usage: "memory protect <address> <bytes> on|off",
		fn:    (*Host).cmdMemoryProtect,
	})

	addCommand(root, command{
		name:        "quit",
		brief:       "Quit the program",
		description: "Quit the program.",
		usage:       "quit",
		fn:          (*Host).cmdQuit,
	})
	addCommand(root, command{
		name:  "register",
		brief: "View or change register values",
		description: "When used without arguments, this command displays the current" +
			" contents of the CPU registers. When used with arguments, this" +
			" command changes the value of a register. Allowed register names" +
			" include D0-D7, A0-A7, SP, PC, SR, CCR, USP and SSP.",
		usage: "register [<name> <value>]",
		fn:    (*Host).cmdRegister,
	})
	addCommand(root, command{
		name:  "reset",
		brief: "Reset the CPU",
		description: "Trigger the reset exception. The supervisor stack" +
			" pointer and PC are reloaded from addresses 0 and 4.",
		usage: "reset",
		fn:    (*Host).cmdReset,
	})
	addCommand(root, command{
		name:  "run",
		brief: "Run the CPU",
		description: "Run the CPU until a breakpoint is hit or until the" +
			" user types Ctrl-C.",
		usage: "run [<address>]",
		fn:    (*Host).cmdRun,
	})
	addCommand(root, command{
		name:  "script",
		brief: "Run a Lua script",
		description: "Run a Lua script against the emulated system. Scripts" +
			" may call peek, poke, reg, setreg, step, tick, irq, reset and" +
			" cycles.",
		usage: "script <filename>",
		fn:    (*Host).cmdScript,
	})
	addCommand(root, command{
		name:  "set",
		brief: "Set a configuration variable",
		description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		usage: "set [<var> <value>]",
		fn:    (*Host).cmdSet,
	})
	addCommand(root, command{
		name:  "status",
		brief: "Display CPU status",
		description: "Display the elapsed cycle count, the cycles left before" +
			" the next instruction, the active and pending interrupts, and" +
			" whether the CPU is stopped or halted.",
		usage: "status",
		fn:    (*Host).cmdStatus,
	})
	addCommand(root, command{
		name:  "step",
		brief: "Step the CPU",
		description: "Step the CPU by a single instruction. The number of" +
			" steps may be specified as an option.",
		usage: "step [<count>]",
		fn:    (*Host).cmdStep,
	})
	addCommand(root, command{
		name:  "tick",
		brief: "Advance the CPU clock",
		description: "Advance the CPU by a number of clock cycles. If no" +
			" count is given, the TickBatch setting is used.",
		usage: "tick [<count>]",
		fn:    (*Host).cmdTick,
	})

	// Add command shortcuts.
	root.AddShortcut("b", "breakpoint")
	root.AddShortcut("bp", "breakpoint")
	root.AddShortcut("ba", "breakpoint add")
	root.AddShortcut("br", "breakpoint remove")
	root.AddShortcut("bl", "breakpoint list")
	root.AddShortcut("be", "breakpoint enable")
	root.AddShortcut("bd", "breakpoint disable")
	root.AddShortcut("bt", "backtrace")
	root.AddShortcut("db", "databreakpoint")
	root.AddShortcut("dbp", "databreakpoint")
	root.AddShortcut("dbl", "databreakpoint list")
	root.AddShortcut("dba", "databreakpoint add")
	root.AddShortcut("dbr", "databreakpoint remove")
	root.AddShortcut("dbe", "databreakpoint enable")
	root.AddShortcut("dbd", "databreakpoint disable")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("ms", "memory set")
	root.AddShortcut("protect", "memory protect")
	root.AddShortcut("r", "register")
	root.AddShortcut("s", "step")
	root.AddShortcut("t", "tick")
	root.AddShortcut("?", "help")
	root.AddShortcut(".", "register")

	cmds = root
}

// findGroup returns the group named by s, allowing any unambiguous prefix.
func findGroup(s string) (*group, bool) {
	g, err := groupsTree.FindValue(strings.ToLower(s))
	return g, err == nil
}
