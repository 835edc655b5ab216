package main

import (
	"fmt"
	"os"
)

func pairCmd(args []string, configPath string) {
	if len(args) < 1 {
		fatalf("expected a pair subcommand (signup, invite, accept, list)")
	}
	cfg := loadConfig(configPath)
	st, cleanup := openStore(cfg)
	defer cleanup()

	switch args[0] {
	case "signup":
		if len(args) != 2 {
			fatalf("usage: duos pair signup <username>")
		}
		p, err := st.CreateProfile("", args[1])
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Created profile %q\n", p.Username)
		fmt.Printf("Add to your config: \"user_id\": %q\n", p.ID)

	case "invite":
		if len(args) != 2 {
			fatalf("usage: duos pair invite <username>")
		}
		me := requireUser(cfg)
		other, err := st.ProfileByUsername(args[1])
		if err != nil {
			fatalf("%v", err)
		}
		pair, err := st.CreatePair(me, other.ID)
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Invited %s (pair %s, pending)\n", other.Username, pair.ID)
		fmt.Printf("Once accepted, add to both configs: \"pair_id\": %q\n", pair.ID)

	case "accept":
		if len(args) != 2 {
			fatalf("usage: duos pair accept <pair-id>")
		}
		if err := st.AcceptPair(args[1]); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Pair %s accepted\n", args[1])
		fmt.Printf("Add to your config: \"pair_id\": %q\n", args[1])

	case "list":
		me := requireUser(cfg)
		pairs, err := st.PairsForUser(me)
		if err != nil {
			fatalf("%v", err)
		}
		if len(pairs) == 0 {
			fmt.Println("No pairs yet.")
			return
		}
		for _, p := range pairs {
			partner := p.UserID1
			if partner == me {
				partner = p.UserID2
			}
			name := partner
			if prof, err := st.ProfileByID(partner); err == nil {
				name = prof.Username
			}
			fmt.Printf("%s  with %-16s %s\n", p.ID, name, p.Status)
		}

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown pair subcommand %q\n", args[0])
		os.Exit(1)
	}
}
