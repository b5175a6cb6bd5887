package main

import "MotifFinderSampler/backend/go/cmd/sampler_cli/cmd"

func main() {
	cmd.Execute()
}
