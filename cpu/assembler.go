// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":            "0",
	"MEMORY_GROW_LIMIT": fmt.Sprintf("%#v", MEMORY_GROW_LIMIT),
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// Assembler is a single pass assembler for WoodSIM programs.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.
	Bits    uint     // Memory size declared by the program header.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate, before
// parsing begins.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint64, err error) {
	value, err = strconv.ParseUint(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 uint64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeUint64(value64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Uint64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into words. The bad word is returned
// along with any error.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, bad string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
			bad = str
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	// 'label:value' is 'label: value'
	line = strings.Replace(line, ":", ": ", 1)

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			bad = words[0]
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			bad = words[1]
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var bad string
	lineno := -1

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Token: bad, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.Bits = 0
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, bad, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		bad, err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{
		Bits:    asm.Bits,
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// parseCount parses the optional repetition count of INC and CDEC.
func (asm *Assembler) parseCount(words []string) (count uint64, bad string, err error) {
	switch len(words) {
	case 0:
		count = 1
	case 1:
		count, err = asm.valueOf(words[0])
		if err != nil {
			bad = words[0]
			err = errors.Join(ErrCountInvalid, err)
			return
		}
	default:
		bad = words[1]
		err = ErrOpcodeExtraArgs
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (bad string, err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	// label: <integer> declares the memory size.
	if strings.HasSuffix(words[0], ":") {
		if len(asm.Opcode) != 0 || asm.Bits != 0 {
			bad = words[0]
			err = ErrBitCountLate
			return
		}
		if len(words) != 2 {
			bad = words[0]
			err = ErrBitCount
			return
		}
		var bits uint64
		bits, err = asm.valueOf(words[1])
		if err != nil || bits == 0 {
			bad = words[1]
			err = errors.Join(ErrBitCount, err)
			return
		}
		asm.Bits = uint(bits)
		return
	}

	op, ok := opMap[words[0]]
	if !ok {
		bad = words[0]
		err = ErrCommandInvalid
		return
	}

	code := Code{Op: op}
	if op.Counted() {
		var count uint64
		count, bad, err = asm.parseCount(words[1:])
		if err != nil {
			return
		}
		code.Count = uint(count)
	} else if len(words) > 1 {
		bad = words[1]
		err = ErrOpcodeExtraArgs
		return
	}

	asm.Opcode = append(asm.Opcode, Opcode{LineNo: lineno, Words: words, Code: code})

	return
}
