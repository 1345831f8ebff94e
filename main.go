package main

import "gpa-calculator/cmd"

func main() {
	cmd.Execute()
}
