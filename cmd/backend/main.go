package main

import (
	"log"

	"github.com/sparktechagency/el-badaoui-dashboard/internal/api"
)

func main() {
	log.Println("App start")
	api.StartServer()
	log.Println("App terminated")
}
