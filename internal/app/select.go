package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vovakirdan/groupstats/internal/core"
)

// SelectGroup prints the numbered group list to out and reads a 1-based choice from in.
func (a *App) SelectGroup(ctx context.Context, in io.Reader, out io.Writer) (core.Group, error) {
	groups, err := a.Groups(ctx)
	if err != nil {
		return core.Group{}, err
	}
	if len(groups) == 0 {
		return core.Group{}, fmt.Errorf("%w: no groups available for this token", core.ErrBadSelection)
	}

	var b strings.Builder
	b.WriteString("Please select the number of the group you want to see stats for\n")
	for i, g := range groups {
		fmt.Fprintf(&b, "%d. %s\n", i+1, g.Name)
	}
	if _, err := io.WriteString(out, b.String()); err != nil {
		return core.Group{}, err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return core.Group{}, fmt.Errorf("%w: read choice: %v", core.ErrBadSelection, err)
	}

	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return core.Group{}, fmt.Errorf("%w: %q is not a number", core.ErrBadSelection, strings.TrimSpace(line))
	}
	if choice < 1 || choice > len(groups) {
		return core.Group{}, fmt.Errorf("%w: choose between 1 and %d", core.ErrBadSelection, len(groups))
	}
	return groups[choice-1], nil
}
