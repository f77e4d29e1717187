package main

import (
	"github.com/danrwr-web/signposting-sub009/cmd"
)

func main() {
	cmd.Execute()
}
