// Command gmctl controls a pulse counter board over I2C or its serial
// console.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	connOpts = struct {
		transport string
		bus       string
		addr      uint16
		device    string
		baud      int
		framing   string
		verbose   bool
	}{}

	rootCmd = &cobra.Command{
		Use:           "gmctl",
		Short:         "Control a pulse counter board",
		Long:          "Send START/STOP/RESET/SET_VOLTAGE commands to a pulse counter board and read back its counter and voltage, over I2C or the serial console.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&connOpts.transport, "transport", "i2c", "connection to the board (=i2c, =serial)")
	flags.StringVar(&connOpts.bus, "bus", "", "I2C bus name, empty for the first bus found")
	flags.Uint16Var(&connOpts.addr, "addr", 0x50, "I2C address of the board")
	flags.StringVarP(&connOpts.device, "device", "d", "/dev/ttyACM0", "serial device path")
	flags.IntVar(&connOpts.baud, "baud", 115200, "serial baud rate (ignored for USB CDC)")
	flags.StringVar(&connOpts.framing, "framing", "v2", "GET_VOLTAGE reply framing (=v2 low byte first, =v1 high byte only)")
	flags.BoolVarP(&connOpts.verbose, "verbose", "v", false, "log connection details")

	rootCmd.AddCommand(startCmd, stopCmd, resetCmd, setVoltageCmd, voltageCmd, countCmd, statusCmd, monitorCmd)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("gmctl: ")

	if err := rootCmd.Execute(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}
