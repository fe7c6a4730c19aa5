package main

import "github.com/alisonjenkins/tmux-sessionizer/internal/cmd"

func main() {
	cmd.Execute()
}
