package testutil

// Realistic contract excerpts for exercising the detection and
// analysis engines end to end.
const (
	// IndianServiceAgreement carries strong Indian signals: statute
	// citations, INR amounts and a Maharashtra registration clause.
	IndianServiceAgreement = `SERVICE AGREEMENT

This Service Agreement is executed at Mumbai, Maharashtra on this 15th day
of March, 2024, and is governed by the Indian Contract Act, 1872.

1. The Service Provider shall render software development services for a
   total consideration of Rs. 25,00,000 (Rupees Twenty Five Lakh only),
   payable in accordance with Section 2 of this Agreement. GST shall be
   charged extra as applicable.

2. Stamp duty on this Agreement shall be borne by the Client and the
   Agreement shall be registered with the Sub-Registrar of Assurances,
   Mumbai, as required under the Registration Act, 1908.

3. Any dispute arising out of this Agreement shall be referred to
   arbitration under the Arbitration and Conciliation Act, 1996, with the
   seat of arbitration at Mumbai. The courts at Mumbai shall have
   exclusive jurisdiction.`

	// USSoftwareLicense carries strong US signals: Delaware governing
	// law, UCC references and USD amounts.
	USSoftwareLicense = `SOFTWARE LICENSE AGREEMENT

This Software License Agreement is entered into as of January 10, 2024,
by and between Licensor, a Delaware corporation, and Licensee.

1. License Fee. Licensee shall pay a one-time license fee of $150,000
   (one hundred fifty thousand US dollars), due net 30 days from the
   Effective Date.

2. Warranties. EXCEPT AS EXPRESSLY SET FORTH HEREIN, LICENSOR DISCLAIMS
   ALL WARRANTIES, INCLUDING THE IMPLIED WARRANTIES OF MERCHANTABILITY
   AND FITNESS FOR A PARTICULAR PURPOSE UNDER THE UNIFORM COMMERCIAL CODE.

3. Governing Law. This Agreement shall be governed by the laws of the
   State of Delaware, without regard to its conflict of laws principles.
   The parties consent to the exclusive jurisdiction of the courts of
   the State of Delaware.`

	// CrossBorderMSA mixes Indian and US signals the way an offshore
	// development agreement does.
	CrossBorderMSA = `MASTER SERVICES AGREEMENT

This Master Services Agreement is made between Acme Inc., a Delaware
corporation with offices in San Francisco, California ("Customer"), and
Bharat Software Private Limited, a company incorporated under the
Companies Act, 2013 with its registered office at Bengaluru, Karnataka,
India ("Supplier").

1. Fees. Customer shall pay Supplier $40,000 per month. Supplier shall
   raise invoices inclusive of GST where applicable; withholding tax
   under the India-US Double Taxation Avoidance Agreement shall be
   dealt with per Section 9.

2. Compliance. Supplier shall comply with the Indian Contract Act, 1872
   and applicable FEMA regulations for foreign exchange remittances.
   Customer shall comply with US export control laws.

3. Disputes. Disputes shall be finally resolved by arbitration seated
   in Singapore under the SIAC Rules, enforceable in India under the
   Arbitration and Conciliation Act, 1996 and in the United States
   under the Federal Arbitration Act.`

	// NonLegalText has no jurisdiction signal at all.
	NonLegalText = `Preheat the oven to 180 degrees. Whisk the eggs with
sugar until pale, fold in the flour and baking powder, then pour the
batter into a lined tin and bake for forty minutes until golden.`
)
