// Command server runs the automation HTTP API and its maintenance commands.
package main

func main() {
	Execute()
}
