package main

import (
	"log"

	"github.com/marben/irpc"

	fractal "github.com/marben/fractal_playground"
)

// rpcServer serves fractal.ImgProvider to cli clients. Every connection
// shares the same provider, so its limit bounds renders across clients.
func rpcServer(provider fractal.ImgProvider) *irpc.Server {
	return irpc.NewServer(
		irpc.WithServices(fractal.NewImgProviderIrpcService(provider)),
		irpc.WithOnConnect(func(ep *irpc.Endpoint) {
			log.Printf("rpc connection from: %s", ep.RemoteAddr())
		}),
	)
}
