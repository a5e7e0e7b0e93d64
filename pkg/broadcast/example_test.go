package broadcast_test

import (
	"context"
	"fmt"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/broadcast"
)

func ExampleMemoryBroadcaster() {
	type event struct {
		Role string
		Text string
	}

	b := broadcast.NewMemoryBroadcaster[event]()
	defer b.Close()

	admins := broadcast.NewChanSubscriber(4, func(e event) bool { return e.Role == "ADMIN" })
	unsubscribe, _ := b.Subscribe(admins)
	defer unsubscribe()

	ctx := context.Background()
	_, _ = b.Broadcast(ctx, event{Role: "CUSTOMER", Text: "invoice sent"})
	n, _ := b.Broadcast(ctx, event{Role: "ADMIN", Text: "job completed"})

	fmt.Println(n, (<-admins.Receive()).Text)
	// Output: 1 job completed
}
