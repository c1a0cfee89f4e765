package main

import "github.com/naka-gawa/github-score/cmd"

func main() {
	cmd.Execute()
}
