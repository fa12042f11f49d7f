package main

import (
	cmd "github.com/rohmanhakim/redis-tracker/internal/cli"
)

func main() {
	cmd.Execute()
}
