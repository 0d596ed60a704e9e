package main

import (
	"github.com/PraiseKol/crossroads/internal/app"
	"github.com/PraiseKol/crossroads/internal/config"
)

func main() {
	app.Go(config.Load())
}
