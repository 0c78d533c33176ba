// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host allows you to create a "host" that emulates a computer system
// with an M680x0 CPU, a sparse 32-bit paged address space, a built-in
// debugger, and a Lua scripting interface.
//
// Within the host it is possible to load machine code into memory, reset the
// CPU, step through machine code one instruction or one clock cycle at a
// time, measure the number of CPU cycles elapsed, request autovectored
// interrupts, set address and data breakpoints, dump and write-protect
// memory, and manipulate CPU registers.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/beevik/cmd"
	"github.com/beevik/go68k/cpu"
	"github.com/beevik/go68k/memory"
	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"
)

var errQuit = errors.New("exiting program")

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
)

// A Host represents a fully emulated M680x0 system: a CPU, its address
// space, a debugger and a Lua interpreter for scripting.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	mem         *memory.AddressSpace
	cpu         *cpu.CPU
	debugger    *cpu.Debugger
	bridge      *cpu.InterruptBridge
	log         *logrus.Logger
	lua         *lua.LState
	lastCmd     *cmd.Selection
	state       state
	interrupted atomic.Bool
	settings    *settings
	expr        *exprParser
}

// New creates a new host environment emulating the requested CPU model.
// Memory is empty; load a program and its vector table, then reset.
func New(model cpu.Model) *Host {
	h := &Host{
		state:    stateProcessingCommands,
		settings: newSettings(),
		expr:     newExprParser(),
		output:   bufio.NewWriter(os.Stdout),
	}

	h.log = logrus.New()
	h.log.SetOutput(os.Stderr)
	h.onSettingsUpdate()

	// Create the emulated CPU and memory.
	h.mem = memory.NewAddressSpace(nil)
	h.cpu = cpu.NewCPU(model, h.mem)
	h.cpu.SetLogger(h.log)

	// Peripherals request interrupts through the bridge.
	h.bridge = cpu.NewInterruptBridge()
	h.cpu.AttachInterruptBridge(h.bridge)

	// Create a CPU debugger and attach it to the CPU.
	handler := newDebugHandler(h)
	h.debugger = cpu.NewDebugger(handler)
	h.cpu.AttachDebugger(h.debugger)
	h.cpu.AttachResetHandler(handler)

	h.lua = newScriptState(h)
	return h
}

// Close releases the resources held by the host.
func (h *Host) Close() {
	h.lua.Close()
}

// SetLogOutput redirects CPU event logging.
func (h *Host) SetLogOutput(w io.Writer) {
	h.log.SetOutput(w)
}

// SetLogLevel changes the CPU event log level, e.g. "debug" or "trace".
func (h *Host) SetLogLevel(level string) error {
	if _, err := logrus.ParseLevel(level); err != nil {
		return err
	}
	h.settings.LogLevel = level
	h.onSettingsUpdate()
	return nil
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered. It returns false
// if a quit command was processed.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) bool {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	h.displayPC()

	err := h.processCommands()
	h.flush()
	return err != errQuit
}

func (h *Host) processCommands() error {
	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			return nil
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.println("Command not found.")
				continue
			case err == cmd.ErrAmbiguous:
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		handler, ok := c.Command.Data.(*command)
		if !ok {
			continue
		}
		h.lastCmd = &c

		if err := handler.fn(h, c); err != nil {
			return err
		}
	}
}

// Break interrupts a running CPU.
func (h *Host) Break() {
	h.interrupted.Store(true)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return strings.TrimSpace(h.input.Text()), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
		h.flush()
	}
}

func (h *Host) displayPC() {
	if h.interactive {
		h.println(h.describePC())
	}
}

// describePC formats the instruction about to execute.
func (h *Host) describePC() string {
	pc := h.cpu.PC()
	if pc&1 != 0 {
		return fmt.Sprintf("%08X  (odd PC)", pc)
	}
	op, err := h.mem.LoadWord(pc)
	if err != nil {
		return fmt.Sprintf("%08X  %v", pc, err)
	}
	inst := h.cpu.InstSet.Lookup(op)
	return fmt.Sprintf("%08X  %04X  %s", pc, op, inst.Name)
}

func (h *Host) displayHelpText(c cmd.Selection) {
	if hc, ok := c.Command.Data.(*command); ok && hc.usage != "" {
		h.printf("Syntax: %s\n", hc.usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayCommands(heading string, list []*command, subtrees []*group) {
	h.printf("%s:\n", heading)
	for _, c := range list {
		if c.brief != "" {
			h.printf("    %-15s  %s\n", c.name, c.brief)
		}
	}
	for _, g := range subtrees {
		h.printf("    %-15s  %s\n", g.name, g.brief)
	}
}

// parseNumber evaluates an expression argument. Negative results wrap
// modulo 2^32.
func (h *Host) parseNumber(s string) (uint32, error) {
	v, err := h.expr.Parse(s, h)
	if err != nil {
		return 0, err
	}
	if v < -(1<<32) || v >= 1<<32 {
		return 0, fmt.Errorf("value '%s' out of 32-bit range", s)
	}
	return uint32(v), nil
}

// resolveIdentifier maps register names, and "." for the PC, to their
// current values.
func (h *Host) resolveIdentifier(s string) (int64, error) {
	if s == "." {
		return int64(h.cpu.PC()), nil
	}
	v, err := h.getRegister(s)
	if err != nil {
		return 0, fmt.Errorf("identifier '%s' not found", s)
	}
	return int64(v), nil
}

// parseArgs parses every argument as a number, printing the first failure.
func (h *Host) parseArgs(args []string) ([]uint32, bool) {
	values := make([]uint32, len(args))
	for i, a := range args {
		v, err := h.parseNumber(a)
		if err != nil {
			h.printf("%v\n", err)
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.displayCommands("go68k commands", commandsInGroup(""), groups)
		return nil
	}

	if len(c.Args) == 1 {
		if g, ok := findGroup(c.Args[0]); ok {
			h.displayCommands(g.brief, commandsInGroup(g.name), nil)
			return nil
		}
	}

	s, err := cmds.Lookup(strings.Join(c.Args, " "))
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	if s.Command == nil {
		return nil
	}
	hc, ok := s.Command.Data.(*command)
	if !ok {
		return nil
	}
	if hc.usage != "" {
		h.printf("Syntax: %s\n\n", hc.usage)
	}
	switch {
	case hc.description != "":
		h.printf("Description:\n%s\n\n", indentWrap(3, hc.description))
	case hc.brief != "":
		h.printf("Description:\n%s.\n\n", indentWrap(3, hc.brief))
	}
	return nil
}

func (h *Host) cmdBacktrace(c cmd.Selection) error {
	trace := h.cpu.Backtrace()
	if len(trace) == 0 {
		h.println("No instructions executed.")
		return nil
	}
	for i, pc := range trace {
		h.printf("%3d  $%08X\n", i-len(trace)+1, pc)
	}
	return nil
}

func (h *Host) cmdBreakpointList(c cmd.Selection) error {
	h.println("Addr      Enabled")
	h.println("--------- -------")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%08X %v\n", b.Address, !b.Disabled)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := h.parseNumber(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%08X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := h.parseNumber(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.debugger.GetBreakpoint(addr) == nil {
		h.printf("No breakpoint was set on $%08X.\n", addr)
		return nil
	}

	h.debugger.RemoveBreakpoint(addr)
	h.printf("Breakpoint at $%08X removed.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointEnable(c cmd.Selection) error {
	return h.enableBreakpoint(c, true)
}

func (h *Host) cmdBreakpointDisable(c cmd.Selection) error {
	return h.enableBreakpoint(c, false)
}

func (h *Host) enableBreakpoint(c cmd.Selection, enable bool) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := h.parseNumber(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil {
		h.printf("No breakpoint was set on $%08X.\n", addr)
		return nil
	}

	b.Disabled = !enable
	h.printf("Breakpoint at $%08X %s.\n", addr, enabledString(enable))
	return nil
}

func (h *Host) cmdDataBreakpointList(c cmd.Selection) error {
	h.println("Addr      Enabled  Value")
	h.println("--------- -------  -----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		if b.Conditional {
			h.printf("$%08X %-5v    $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			h.printf("$%08X %-5v    <none>\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	args, ok := h.parseArgs(c.Args[:min(len(c.Args), 2)])
	if !ok {
		return nil
	}

	addr := args[0]
	if len(args) > 1 {
		value := byte(args[1])
		h.debugger.AddConditionalDataBreakpoint(addr, value)
		h.printf("Conditional data breakpoint added at $%08X for value $%02X.\n", addr, value)
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%08X.\n", addr)
	}

	return nil
}

func (h *Host) cmdDataBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := h.parseNumber(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.debugger.GetDataBreakpoint(addr) == nil {
		h.printf("No data breakpoint was set on $%08X.\n", addr)
		return nil
	}

	h.debugger.RemoveDataBreakpoint(addr)
	h.printf("Data breakpoint at $%08X removed.\n", addr)
	return nil
}

func (h *Host) cmdDataBreakpointEnable(c cmd.Selection) error {
	return h.enableDataBreakpoint(c, true)
}

func (h *Host) cmdDataBreakpointDisable(c cmd.Selection) error {
	return h.enableDataBreakpoint(c, false)
}

func (h *Host) enableDataBreakpoint(c cmd.Selection, enable bool) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := h.parseNumber(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetDataBreakpoint(addr)
	if b == nil {
		h.printf("No data breakpoint was set on $%08X.\n", addr)
		return nil
	}

	b.Disabled = !enable
	h.printf("Data breakpoint at $%08X %s.\n", addr, enabledString(enable))
	return nil
}

func enabledString(enable bool) string {
	if enable {
		return "enabled"
	}
	return "disabled"
}

func (h *Host) cmdExecute(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	file, err := os.Open(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	defer file.Close()

	input, interactive := h.input, h.interactive
	h.input, h.interactive = bufio.NewScanner(file), false
	defer func() {
		h.input, h.interactive = input, interactive
	}()

	return h.processCommands()
}

func (h *Host) cmdIRQ(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	level, err := h.parseNumber(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if err := h.bridge.RaiseAutovector(int(level)); err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.printf("Level %d autovector requested.\n", level)
	return nil
}

func (h *Host) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := h.parseNumber(c.Args[1])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	n, err := h.load(c.Args[0], addr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("Loaded '%s' to $%08X..$%08X.\n", c.Args[0], addr, addr+uint32(n)-1)
	return nil
}

func (h *Host) load(filename string, addr uint32) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	n, err := h.mem.BulkStore(addr, file)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, fmt.Errorf("file '%s' is empty", filename)
	}
	return n, nil
}

func (h *Host) cmdMemoryROM(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := h.parseNumber(c.Args[1])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	image, err := os.ReadFile(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	if len(image) == 0 {
		h.printf("file '%s' is empty\n", c.Args[0])
		return nil
	}

	h.mem.MapROM(addr, image)
	h.printf("Mapped ROM '%s' to $%08X..$%08X.\n", c.Args[0], addr, addr+uint32(len(image))-1)
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	var addr uint32
	if len(c.Args) > 0 {
		switch c.Args[0] {
		case "$":
			addr = h.settings.NextMemDumpAddr

		default:
			a, err := h.parseNumber(c.Args[0])
			if err != nil {
				h.printf("%v\n", err)
				return nil
			}
			addr = a
		}
	} else {
		addr = h.settings.NextMemDumpAddr
	}

	bytes := uint32(h.settings.MemDumpBytes)
	if len(c.Args) >= 2 {
		var err error
		bytes, err = h.parseNumber(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + bytes
	h.lastCmd.Args = []string{"$", fmt.Sprintf("$%X", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayHelpText(c)
		return nil
	}

	args, ok := h.parseArgs(c.Args)
	if !ok {
		return nil
	}

	addr := args[0]
	b := make([]byte, len(args)-1)
	for i, v := range args[1:] {
		b[i] = byte(v)
	}

	if err := h.mem.StoreBytes(addr, b); err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.printf("Set %d byte(s) at $%08X.\n", len(b), addr)
	return nil
}

func (h *Host) cmdMemoryProtect(c cmd.Selection) error {
	if len(c.Args) < 3 {
		h.displayHelpText(c)
		return nil
	}

	args, ok := h.parseArgs(c.Args[:2])
	if !ok {
		return nil
	}
	on, err := stringToBool(c.Args[2])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if err := h.mem.SetWriteProtection(args[0], args[1], on); err != nil {
		h.printf("%v\n", err)
		return nil
	}
	if on {
		h.printf("Write protection on for $%08X bytes at $%08X.\n", args[1], args[0])
	} else {
		h.printf("Write protection off for $%08X bytes at $%08X.\n", args[1], args[0])
	}
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errQuit
}

func (h *Host) cmdRegister(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		r := h.cpu.Registers()
		h.println(r.String())
	case 1:
		v, err := h.getRegister(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.printf("%s=%0*X\n", strings.ToUpper(c.Args[0]), registerWidth(c.Args[0]), v)
	default:
		v, err := h.parseNumber(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		if err := h.setRegister(c.Args[0], v); err != nil {
			h.printf("%v\n", err)
			return nil
		}
		v, _ = h.getRegister(c.Args[0])
		h.printf("Register %s set to $%0*X.\n", strings.ToUpper(c.Args[0]), registerWidth(c.Args[0]), v)
	}
	return nil
}

func (h *Host) cmdReset(c cmd.Selection) error {
	if err := h.cpu.Reset(); err != nil {
		h.printf("%v\n", err)
		return nil
	}
	r := h.cpu.Registers()
	h.printf("Reset: SSP=$%08X PC=$%08X.\n", r.SSP, r.PC)
	h.displayPC()
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	if len(c.Args) > 0 {
		pc, err := h.parseNumber(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.cpu.SetPC(pc)
	}

	h.printf("Running from $%08X. Press ctrl-C to break.\n", h.cpu.PC())

	h.interrupted.Store(false)
	h.state = stateRunning
	for h.state == stateRunning {
		h.step()
	}
	h.state = stateProcessingCommands
	return nil
}

func (h *Host) cmdScript(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	if err := h.RunScript(c.Args[0]); err != nil {
		h.printf("%v\n", err)
	}
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayHelpText(c)

	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")
		v, errV := h.parseNumber(value)

		// Setting a register?
		if errV == nil {
			if _, err := h.getRegister(key); err == nil {
				h.setRegister(key, v)
				v, _ = h.getRegister(key)
				h.printf("Register %s set to $%0*X.\n", strings.ToUpper(key), registerWidth(key), v)
				return nil
			}
		}

		// Setting a debugger setting?
		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("setting '%s' not found", key)
		case reflect.String:
			err = h.settings.Set(key, value)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			err = errV
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}

		h.onSettingsUpdate()
	}

	return nil
}

func (h *Host) cmdStatus(c cmd.Selection) error {
	h.printf("Cycles:    %d (%d until next instruction)\n", h.cpu.Cycles(), h.cpu.CyclesRemaining())
	h.printf("Model:     %s\n", h.cpu.Model)
	h.printf("Stopped:   %v\n", h.cpu.Stopped())
	h.printf("Halted:    %v\n", h.cpu.Halted())
	if irq, ok := h.cpu.Active(); ok {
		h.printf("Active:    %s (priority %d)\n", irq, irq.Priority())
	} else {
		h.println("Active:    <none>")
	}
	pending := h.cpu.Pending()
	if len(pending) == 0 {
		h.println("Pending:   <none>")
	}
	for i, irq := range pending {
		h.printf("Pending:   %d. %s (priority %d)\n", i+1, irq, irq.Priority())
	}
	h.printf("Pages:     %d\n", h.mem.PageCount())
	return nil
}

func (h *Host) cmdStep(c cmd.Selection) error {
	// Parse the number of steps.
	count := 1
	if len(c.Args) > 0 {
		n, err := h.parseNumber(c.Args[0])
		if err == nil {
			count = int(n)
		}
	}

	// Step the CPU count times.
	h.interrupted.Store(false)
	h.state = stateRunning
	for i := count - 1; i >= 0 && h.state == stateRunning; i-- {
		h.step()
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
	}
	h.state = stateProcessingCommands
	return nil
}

func (h *Host) cmdTick(c cmd.Selection) error {
	count := uint32(h.settings.TickBatch)
	if len(c.Args) > 0 {
		n, err := h.parseNumber(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		count = n
	}

	h.interrupted.Store(false)
	h.state = stateRunning
	start := h.cpu.Cycles()
	for i := uint32(0); i < count && h.state == stateRunning; i++ {
		h.tick()
	}
	h.state = stateProcessingCommands

	h.printf("Ticked %d cycle(s). PC=$%08X, %d cycle(s) until next instruction.\n",
		h.cpu.Cycles()-start, h.cpu.PC(), h.cpu.CyclesRemaining())
	return nil
}

// step executes one instruction and stops the host on an emulator error
// or a break request.
func (h *Host) step() {
	h.checkError(h.cpu.Step())
}

// tick advances the CPU clock by one cycle.
func (h *Host) tick() {
	h.checkError(h.cpu.Tick())
}

func (h *Host) checkError(err error) {
	var ie *cpu.InternalError
	switch {
	case errors.As(err, &ie):
		h.state = stateBreakpoint
		h.printf("ERROR: %v\n", ie)
	case errors.Is(err, cpu.ErrHalted):
		h.state = stateBreakpoint
		h.println("CPU halted by a double fault. Reset to continue.")
	case err != nil:
		h.state = stateBreakpoint
		h.printf("ERROR: %v\n", err)
	case h.interrupted.Swap(false):
		h.state = stateBreakpoint
		h.println()
		h.displayPC()
	}
}

func (h *Host) onSettingsUpdate() {
	h.expr.hexMode = h.settings.HexMode

	level, err := logrus.ParseLevel(h.settings.LogLevel)
	if err != nil {
		h.printf("%v\n", err)
		h.settings.LogLevel = h.log.GetLevel().String()
		return
	}
	h.log.SetLevel(level)
}

func (h *Host) dumpMemory(addr0, bytes uint32) {
	if bytes == 0 {
		return
	}

	addr1 := addr0 + bytes - 1
	if addr1 < addr0 {
		addr1 = 0xffffffff
	}

	buf := []byte("        -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:8])
		for a, c1, c2 := uint64(addr0), 10, 36; a <= uint64(addr1); a, c1, c2 = a+1, c1+3, c2+1 {
			m, err := h.mem.LoadByte(uint32(a))
			if err != nil {
				h.printf("%v\n", err)
				return
			}
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint64(addr0) &^ 7
	stop := (uint64(addr1) + 8) &^ 7

	a := start
	for r := start; r < stop; r += 8 {
		addrToBuf(uint32(a), buf[0:8])
		for c1, c2 := 10, 36; c1 < 33; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= uint64(addr0) && a <= uint64(addr1) {
				m, err := h.mem.LoadByte(uint32(a))
				if err != nil {
					h.printf("%v\n", err)
					return
				}
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) onBreakpoint(cpu *cpu.CPU, b *cpu.Breakpoint) {
	h.state = stateBreakpoint
	h.printf("Breakpoint hit at $%08X.\n", b.Address)
	h.displayPC()
}

func (h *Host) onDataBreakpoint(cpu *cpu.CPU, b *cpu.DataBreakpoint) {
	h.printf("Data breakpoint hit on address $%08X.\n", b.Address)
	h.state = stateBreakpoint
	h.displayPC()
}

func (h *Host) onReset(cpu *cpu.CPU) {
	h.log.WithField("pc", fmt.Sprintf("$%08X", cpu.PC())).Info("external reset asserted")
	h.println("RESET instruction asserted the reset line.")
}
