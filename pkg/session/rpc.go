package session

import (
	"github.com/gorilla/rpc"
	gorillajson "github.com/gorilla/rpc/json"
)

// CreateRPCServer exposes the wallet and fhe services over JSON-RPC.
func CreateRPCServer(wallet *WalletService, fheService *FHEService) (*rpc.Server, error) {
	rpcServer := rpc.NewServer()
	rpcServer.RegisterCodec(gorillajson.NewCodec(), "application/json")

	if err := rpcServer.RegisterTCPService(wallet, "wallet"); err != nil {
		return nil, err
	}
	if err := rpcServer.RegisterTCPService(fheService, "fhe"); err != nil {
		return nil, err
	}

	return rpcServer, nil
}
