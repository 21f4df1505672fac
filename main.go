package main

import "disposable-chat-app/config"

func main() {
	config.RunServer()
}
