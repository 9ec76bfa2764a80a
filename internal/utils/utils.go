package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type InputUtils struct {
	in  *bufio.Reader
	out io.Writer
}

func NewInputUtils(in io.Reader, out io.Writer) *InputUtils {
	return &InputUtils{in: bufio.NewReader(in), out: out}
}

// StdInput prompts on the process terminal.
func StdInput() *InputUtils {
	return NewInputUtils(os.Stdin, os.Stdout)
}

func (i *InputUtils) readLine() (string, error) {
	line, err := i.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetUserChoice prompts user for choice from valid options
func (i *InputUtils) GetUserChoice(validOptions []string, prompt string, force bool) (string, error) {
	if force {
		return validOptions[0], nil
	}

	for {
		fmt.Fprintf(i.out, "%s (%s): ", prompt, strings.Join(validOptions, "/"))
		input, err := i.readLine()
		if err != nil {
			return "", err
		}
		choice := strings.ToLower(input)

		for _, option := range validOptions {
			if choice == option {
				return choice, nil
			}
		}
		fmt.Fprintf(i.out, "Invalid option. Please choose from: %s\n", strings.Join(validOptions, ", "))
	}
}

// AskConfirmation asks user for yes/no confirmation
func (i *InputUtils) AskConfirmation(message string, force bool) bool {
	if force {
		return true
	}
	fmt.Fprintf(i.out, "%s (y/N): ", message)
	response, err := i.readLine()
	if err != nil {
		return false
	}
	response = strings.ToLower(response)
	return response == "y" || response == "yes"
}

// Select prints a numbered menu and returns the zero-based index picked.
// Entering 0 returns -1.
func (i *InputUtils) Select(title string, options []string, zeroLabel string) (int, error) {
	for {
		fmt.Fprintf(i.out, "\n%s\n", title)
		for n, option := range options {
			fmt.Fprintf(i.out, "  %d. %s\n", n+1, option)
		}
		fmt.Fprintf(i.out, "  0. %s\n", zeroLabel)
		fmt.Fprint(i.out, "Choose an option: ")

		input, err := i.readLine()
		if err != nil {
			return -1, err
		}
		n, err := strconv.Atoi(input)
		if err == nil && n >= 0 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(i.out, "Invalid option. Enter a number between 0 and %d\n", len(options))
	}
}

// AskInt reads a positive integer, returning def for an empty answer.
func (i *InputUtils) AskInt(prompt string, def int) (int, error) {
	for {
		fmt.Fprintf(i.out, "%s [%d]: ", prompt, def)
		input, err := i.readLine()
		if err != nil {
			return 0, err
		}
		if input == "" {
			return def, nil
		}
		n, err := strconv.Atoi(input)
		if err == nil && n > 0 {
			return n, nil
		}
		fmt.Fprintln(i.out, "Please enter a positive number")
	}
}
