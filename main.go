package main

import "github.com/llehouerou/demoplayer/internal/cli"

func main() {
	cli.Execute()
}
