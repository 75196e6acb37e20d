package main

import "campusfaq/internal/cli"

func main() {
	cli.Execute()
}
