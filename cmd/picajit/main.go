package main

import (
	"go.brendoncarroll.net/star"

	"picaweb.org/picajit/picacmd"
)

func main() {
	star.Main(picacmd.Root())
}
