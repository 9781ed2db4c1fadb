// Package security holds the TLS settings an entity client uses to reach
// its upstream: a private CA, a client certificate for mTLS, a server name
// override and the minimum protocol version.
//
//	clients:
//	  - entity: NG
//	    base_url: https://ng.internal
//	    tls:
//	      ca_file: /etc/ssl/ng-ca.pem
//	      cert_file: /etc/ssl/client.pem
//	      key_file: /etc/ssl/client-key.pem
//	      min_version: "1.3"
package security
