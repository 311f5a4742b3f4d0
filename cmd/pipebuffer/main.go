// Command pipebuffer relays stdin to stdout through a bounded block buffer.
package main

func main() {
	Execute()
}
